package greetcard

import (
	"reflect"
)

// Queries visit every entity that owns all of the requested component types.
// Callbacks return false to stop iteration early. Pointers handed to the
// callback stay valid until the next structural change (FlushCommands).
type Query1[A any] struct {
	ecs     *Ecs
	without []componentId
}
type Query2[A, B any] struct {
	ecs     *Ecs
	without []componentId
}
type Query3[A, B, C any] struct {
	ecs     *Ecs
	without []componentId
}
type Query4[A, B, C, D any] struct {
	ecs     *Ecs
	without []componentId
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

// Without excludes entities that own any of the given component types.
func (q Query1[A]) Without(components ...any) Query1[A] {
	q.without = appendWithout(q.ecs, q.without, components)
	return q
}

func (q Query2[A, B]) Without(components ...any) Query2[A, B] {
	q.without = appendWithout(q.ecs, q.without, components)
	return q
}

func (q Query3[A, B, C]) Without(components ...any) Query3[A, B, C] {
	q.without = appendWithout(q.ecs, q.without, components)
	return q
}

func (q Query4[A, B, C, D]) Without(components ...any) Query4[A, B, C, D] {
	q.without = appendWithout(q.ecs, q.without, components)
	return q
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1 := identifyComponent[A](q.ecs)
	for _, arch := range q.ecs.archetypes {
		if !archetypeMatches(arch, q.without, id1) {
			continue
		}
		comps1 := arch.componentData[id1].([]A)
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1, id2 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs)
	for _, arch := range q.ecs.archetypes {
		if !archetypeMatches(arch, q.without, id1, id2) {
			continue
		}
		comps1 := arch.componentData[id1].([]A)
		comps2 := arch.componentData[id2].([]B)
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	id1, id2, id3 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs), identifyComponent[C](q.ecs)
	for _, arch := range q.ecs.archetypes {
		if !archetypeMatches(arch, q.without, id1, id2, id3) {
			continue
		}
		comps1 := arch.componentData[id1].([]A)
		comps2 := arch.componentData[id2].([]B)
		comps3 := arch.componentData[id3].([]C)
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r], &comps3[r]) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool) {
	id1, id2 := identifyComponent[A](q.ecs), identifyComponent[B](q.ecs)
	id3, id4 := identifyComponent[C](q.ecs), identifyComponent[D](q.ecs)
	for _, arch := range q.ecs.archetypes {
		if !archetypeMatches(arch, q.without, id1, id2, id3, id4) {
			continue
		}
		comps1 := arch.componentData[id1].([]A)
		comps2 := arch.componentData[id2].([]B)
		comps3 := arch.componentData[id3].([]C)
		comps4 := arch.componentData[id4].([]D)
		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r], &comps3[r], &comps4[r]) {
				return
			}
		}
	}
}

func archetypeMatches(arch *archetype, without []componentId, required ...componentId) bool {
	if len(arch.entities) == 0 {
		return false
	}
	for _, id := range required {
		if _, ok := arch.componentData[id]; !ok {
			return false
		}
	}
	for _, id := range without {
		if _, ok := arch.componentData[id]; ok {
			return false
		}
	}
	return true
}

func appendWithout(ecs *Ecs, without []componentId, components []any) []componentId {
	res := append([]componentId(nil), without...)
	for _, c := range components {
		res = append(res, ecs.getComponentId(componentType(c)))
	}
	return res
}

func identifyComponent[T any](ecs *Ecs) componentId {
	var zero T
	return ecs.getComponentId(reflect.TypeOf(zero))
}
