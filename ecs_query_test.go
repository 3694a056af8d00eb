package greetcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newQueryTestCommands() (*Commands, *Ecs) {
	app := NewApp()
	return app.Commands(), app.ecs
}

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	cmd, ecs := newQueryTestCommands()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	got := map[EntityId]Comp2{}
	gotA := map[EntityId]Comp1{}
	MakeQuery2[Comp1, Comp2](cmd).Map(func(entityId EntityId, comp1 *Comp1, comp2 *Comp2) bool {
		gotA[entityId] = *comp1
		got[entityId] = *comp2
		return true
	})

	assert.Equal(t, map[EntityId]Comp1{id2: {a: 2}, id3: {a: 3}}, gotA)
	assert.Equal(t, map[EntityId]Comp2{id2: {b: 1.37}, id3: {b: 4.20}}, got)
}

func TestQuery_Without(t *testing.T) {
	type Comp1 struct{ a int }
	type Skip struct{}

	cmd, ecs := newQueryTestCommands()
	keep := ecs.addEntity(Comp1{a: 1})
	ecs.addEntity(Comp1{a: 2}, Skip{})

	var ids []EntityId
	MakeQuery1[Comp1](cmd).Without(Skip{}).Map(func(eid EntityId, c *Comp1) bool {
		ids = append(ids, eid)
		return true
	})
	assert.Equal(t, []EntityId{keep}, ids)
}

func TestQuery_StopsWhenCallbackReturnsFalse(t *testing.T) {
	type Comp1 struct{ a int }

	cmd, ecs := newQueryTestCommands()
	for i := range 5 {
		ecs.addEntity(Comp1{a: i})
	}

	visits := 0
	MakeQuery1[Comp1](cmd).Map(func(EntityId, *Comp1) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}

func TestQuery_PointersWriteThrough(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b int }

	cmd, ecs := newQueryTestCommands()
	id := ecs.addEntity(Comp1{a: 1}, Comp2{b: 1})

	MakeQuery2[Comp1, Comp2](cmd).Map(func(eid EntityId, c1 *Comp1, c2 *Comp2) bool {
		c1.a = 10
		c2.b = 20
		return true
	})
	assert.Equal(t, 10, Component[Comp1](cmd, id).a)
	assert.Equal(t, 20, Component[Comp2](cmd, id).b)
}
