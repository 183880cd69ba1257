package patterns

// Identifiers and expressions for the patterns backing the email and phone
// validators. They live in the same registry namespace as user patterns so a
// declaration can reference them explicitly via compiled_regex.
const (
	EmailID   = "form_regex_email"
	EmailExpr = `^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`

	// USPhoneExpr accepts an optional country code, area code, exchange and
	// subscriber number with optional separators or parentheses.
	USPhoneID   = "form_regex_us_phone"
	USPhoneExpr = `^(\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`
)

// DeclareBuiltin registers one of the builtin patterns, reusing the existing
// entry when a previous field already pulled it in.
func (r *Registry) DeclareBuiltin(id, expr string) (*Entry, error) {
	if entry, ok := r.entries[id]; ok {
		return entry, nil
	}
	return r.Declare(id, expr)
}
