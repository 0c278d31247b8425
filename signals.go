package typemap

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Signals for mapping events. Mapping never fails for bad input, these signals are
// the way to observe values that were dropped on the way.
var (
	SignalIndexBuilt    = capitan.NewSignal("typemap.index.built", "Field index built for a type")
	SignalFieldSkipped  = capitan.NewSignal("typemap.field.skipped", "Field left out of a field index")
	SignalValueDegraded = capitan.NewSignal("typemap.value.degraded", "Input value could not be coerced")
	SignalDepthExceeded = capitan.NewSignal("typemap.depth.exceeded", "Nesting exceeds the maximum depth")
)

// Keys for typed event data.
var (
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeyField      = capitan.NewStringKey("field")
	KeyDeclared   = capitan.NewStringKey("declared")
	KeyInputKind  = capitan.NewStringKey("input_kind")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeyDepth      = capitan.NewIntKey("depth")
)

func emitIndexBuilt(ctx context.Context, typeName string, fieldCount int) {
	capitan.Emit(ctx, SignalIndexBuilt,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fieldCount),
	)
}

// emitFieldSkipped reports a field without a usable descriptor. declared is the
// annotation type or the go type of the field.
func emitFieldSkipped(ctx context.Context, typeName, field, declared string) {
	capitan.Emit(ctx, SignalFieldSkipped,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyDeclared.Field(declared),
	)
}

func emitValueDegraded(ctx context.Context, typeName, field, declared string, input Kind) {
	capitan.Emit(ctx, SignalValueDegraded,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyDeclared.Field(declared),
		KeyInputKind.Field(input.String()),
	)
}

func emitDepthExceeded(ctx context.Context, typeName string, depth int) {
	capitan.Emit(ctx, SignalDepthExceeded,
		KeyTypeName.Field(typeName),
		KeyDepth.Field(depth),
	)
}
