package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RequestEvent records one call made against the study-session server.
type RequestEvent struct {
	ent.Schema
}

func (RequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("request_id").
			NotEmpty().
			Comment("X-Request-ID sent with the call"),
		field.String("session_id").
			Default("").
			Comment("Server session id the call was namespaced under"),
		field.String("block_id").
			Default("").
			Comment("Block the call targeted, empty for session-wide calls"),
		field.String("operation").
			NotEmpty().
			Comment("load, toggle-covered, generate, mark-asked, duration, export, start, delete"),
		field.Int("status_code").
			Default(0).
			Comment("HTTP status, 0 when the request never got a response"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock time for the request"),
		field.Bool("success").
			Comment("Whether the call succeeded"),
		field.String("error_message").
			Default("").
			Comment("Error message if failed"),
	}
}

func (RequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("operation"),
		index.Fields("session_id"),
		index.Fields("success"),
	}
}
