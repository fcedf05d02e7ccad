package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records a single answered exercise within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.Int("level").
			Comment("Level the exercise was generated for"),
		field.String("kind").
			NotEmpty().
			Comment("identify_letter, complete_diacritic, or complete_sentence"),
		field.String("prompt").
			NotEmpty().
			Comment("The exercise prompt shown"),
		field.String("answer").
			NotEmpty().
			Comment("The correct option text"),
		field.String("chosen").
			NotEmpty().
			Comment("The option the learner picked"),
		field.Bool("correct").
			Comment("Whether the pick was correct"),
		field.Int("attempt").
			Default(1).
			Comment("1 for first try, incremented per retry of the same item"),
		field.Int("time_ms").
			Comment("Milliseconds from display to answer"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("level"),
		index.Fields("kind"),
		index.Fields("correct"),
	}
}
