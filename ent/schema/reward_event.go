package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RewardEvent records a star award for a completed session.
type RewardEvent struct {
	ent.Schema
}

func (RewardEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RewardEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Session the award belongs to"),
		field.Int("level").
			Comment("Level completed"),
		field.String("tier").
			NotEmpty().
			Comment("gold, silver, or bronze"),
		field.Int("stars").
			Comment("Stars granted for this completion"),
		field.Bool("unlocked_next").
			Default(false).
			Comment("Whether this completion unlocked the next level"),
	}
}

func (RewardEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("level"),
		index.Fields("tier"),
	}
}
