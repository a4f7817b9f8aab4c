// Package validator provides small, composable validation rules.
//
// A Rule couples a boolean Check with translation-friendly error metadata.
// Rules are evaluated either with Apply, which collects every failure into a
// ValidationErrors slice that satisfies the error interface, or with First,
// which stops at the first failing rule. First is what form fields use: a
// value that is missing should only ever report "required", never a format
// problem as well.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.MatchesPattern("email", email, emailRe, "email"),
//	)
//
//	if failed := validator.First(
//	    validator.RequiredString("phone", phone).WithMessage("This field is required"),
//	    validator.MatchesPattern("phone", phone, phoneRe, "phone").WithMessage("Please enter a valid phone number"),
//	); failed != nil {
//	    // failed.Message is the message of the first failing rule
//	}
//
// # Error Handling
//
// ValidationErrors works with errors.As; ExtractValidationErrors and
// IsValidationError are shortcuts for it.
package validator
