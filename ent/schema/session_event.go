package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("action").
			NotEmpty().
			Comment("start, complete, or abandon"),
		field.Int("level").
			Comment("Level played"),
		field.Int("target_correct").
			Default(0).
			Comment("Correct answers needed to finish"),
		field.Int("correct_answers").
			Default(0).
			Comment("Total correct picks (on complete/abandon only)"),
		field.Int("wrong_answers").
			Default(0).
			Comment("Total wrong picks (on complete/abandon only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Actual duration in seconds (on complete/abandon only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
		index.Fields("level"),
	}
}
