package typedtypes

// ValidatorRef names a validator declared on a parameter together with the
// extra positional arguments it is invoked with.
type ValidatorRef struct {
	Name string
	Args []any
}

// ParamInfo is the declared type information for one command parameter.
// An empty TypeName means the raw token is passed through unconverted.
type ParamInfo struct {
	TypeName   string
	Validators []ValidatorRef
	Desc       string
}

// FormatterKind tags the variants of FormatterRef.
type FormatterKind int

const (
	// FormatterIdentity stringifies the value.
	FormatterIdentity FormatterKind = iota
	// FormatterRegistry looks the formatter up on the declared registry type.
	FormatterRegistry
	// FormatterInstance looks for a Format<Name> method on the value itself.
	FormatterInstance
	// FormatterCustom calls Printer directly.
	FormatterCustom
)

// FormatterRef describes how a command's return value is rendered.
type FormatterRef struct {
	Kind    FormatterKind
	Name    string
	Printer func(value any) (string, error)
}

// RegistryNamed returns a formatter resolved through the type registry.
func RegistryNamed(name string) FormatterRef {
	return FormatterRef{Kind: FormatterRegistry, Name: name}
}

// InstanceMethod returns a formatter resolved on the returned value.
func InstanceMethod(name string) FormatterRef {
	return FormatterRef{Kind: FormatterInstance, Name: name}
}

// Identity returns the stringify formatter.
func Identity() FormatterRef {
	return FormatterRef{Kind: FormatterIdentity}
}

// Custom returns a formatter backed by an arbitrary printer function.
func Custom(printer func(value any) (string, error)) FormatterRef {
	return FormatterRef{Kind: FormatterCustom, Printer: printer}
}

// ReturnInfo is a command's single return declaration. When IsData is false a
// non-nil return value is treated as a new context rather than printed.
type ReturnInfo struct {
	TypeName  string
	Formatter FormatterRef
	IsData    bool
	Desc      string
}
