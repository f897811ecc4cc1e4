// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/abhisek/studydeck/ent/requestevent"
	"github.com/abhisek/studydeck/ent/schema"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	requesteventMixin := schema.RequestEvent{}.Mixin()
	requesteventMixinFields0 := requesteventMixin[0].Fields()
	_ = requesteventMixinFields0
	requesteventFields := schema.RequestEvent{}.Fields()
	_ = requesteventFields
	// requesteventDescTimestamp is the schema descriptor for timestamp field.
	requesteventDescTimestamp := requesteventMixinFields0[1].Descriptor()
	// requestevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	requestevent.DefaultTimestamp = requesteventDescTimestamp.Default.(func() time.Time)
	// requesteventDescRequestID is the schema descriptor for request_id field.
	requesteventDescRequestID := requesteventFields[0].Descriptor()
	// requestevent.RequestIDValidator is a validator for the "request_id" field. It is called by the builders before save.
	requestevent.RequestIDValidator = requesteventDescRequestID.Validators[0].(func(string) error)
	// requesteventDescSessionID is the schema descriptor for session_id field.
	requesteventDescSessionID := requesteventFields[1].Descriptor()
	// requestevent.DefaultSessionID holds the default value on creation for the session_id field.
	requestevent.DefaultSessionID = requesteventDescSessionID.Default.(string)
	// requesteventDescBlockID is the schema descriptor for block_id field.
	requesteventDescBlockID := requesteventFields[2].Descriptor()
	// requestevent.DefaultBlockID holds the default value on creation for the block_id field.
	requestevent.DefaultBlockID = requesteventDescBlockID.Default.(string)
	// requesteventDescOperation is the schema descriptor for operation field.
	requesteventDescOperation := requesteventFields[3].Descriptor()
	// requestevent.OperationValidator is a validator for the "operation" field. It is called by the builders before save.
	requestevent.OperationValidator = requesteventDescOperation.Validators[0].(func(string) error)
	// requesteventDescStatusCode is the schema descriptor for status_code field.
	requesteventDescStatusCode := requesteventFields[4].Descriptor()
	// requestevent.DefaultStatusCode holds the default value on creation for the status_code field.
	requestevent.DefaultStatusCode = requesteventDescStatusCode.Default.(int)
	// requesteventDescLatencyMs is the schema descriptor for latency_ms field.
	requesteventDescLatencyMs := requesteventFields[5].Descriptor()
	// requestevent.DefaultLatencyMs holds the default value on creation for the latency_ms field.
	requestevent.DefaultLatencyMs = requesteventDescLatencyMs.Default.(int64)
	// requesteventDescErrorMessage is the schema descriptor for error_message field.
	requesteventDescErrorMessage := requesteventFields[7].Descriptor()
	// requestevent.DefaultErrorMessage holds the default value on creation for the error_message field.
	requestevent.DefaultErrorMessage = requesteventDescErrorMessage.Default.(string)
}
