package greetcard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_RoutesLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newDefaultLogger("card", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("hello %s", "world")
	l.Warnf("careful")
	l.Errorf("broken: %v", "pipe")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[card] INFO: hello world")
	assert.Contains(t, errOut.String(), "[card] WARN: careful")
	assert.Contains(t, errOut.String(), "[card] ERROR: broken: pipe")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "DEBUG: shown 2")
}

func TestAppLogger_FallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, NewApp().Logger())

	app = NewApp().UseModules(LoggingModule{Prefix: "x"})
	_, ok := app.Logger().(*DefaultLogger)
	assert.True(t, ok)
}
