package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldOwner       = "owner"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldWindow      = "window"
	FieldThreshold   = "threshold"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentNotify  = "notify"
	ComponentBudget  = "budget"
	ComponentAdmin   = "admin"
	ComponentAuth    = "auth"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpList     = "list"
	OpEvaluate = "evaluate"
	OpExport   = "export"
	OpNotify   = "notify"
)

// LogFields provides a builder for structured log attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields.
func (f LogFields) WithTransaction(owner, kind, category string, amountCents int64) LogFields {
	f[FieldOwner] = owner
	f[FieldKind] = kind
	f[FieldCategory] = category
	f[FieldAmountCents] = amountCents
	return f
}

// ToSlice converts LogFields to alternating key/value pairs for slog.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
