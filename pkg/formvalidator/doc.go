// Package formvalidator validates contact form fields, renders their error
// state through a Presenter and gates a simulated submission.
//
// # Rules
//
// A RuleSet maps field names to a pattern and a message. It is immutable and
// shared; DefaultRules is the contact form table and LoadRules merges YAML
// overrides onto it at startup.
//
// # Validation
//
// Values are trimmed before checking. An empty value fails with the required
// message and is never matched against the pattern; a non-empty value that
// does not match fails with the field's message. Validator.ValidateField
// renders the result: MarkInvalid and SetError(message) on failure, MarkValid
// and SetError("") on success.
//
// # Field lifecycle
//
// Each field of a Form moves Untouched → Valid ⇄ Invalid:
//
//	blur    always revalidates
//	input   revalidates only an Invalid field
//	submit  revalidates every field, without stopping at the first failure
//	reset   returns the field to Untouched and clears its marker and error
//
// Forms do not keep state between events. When the presenter implements
// StateSource the initial state of each field is read back from it, so the
// marker shown to the user is the only record of a field's state.
//
// # Submission
//
// Submitter.Submit validates the form, puts the submit control into loading,
// waits a fixed delay and then clears loading, shows a success notice and
// resets the form. Nothing is sent anywhere. Submissions are keyed per form;
// a new submission cancels a pending one with the same key.
//
//	v := formvalidator.New(formvalidator.DefaultRules())
//	s := formvalidator.NewSubmitter()
//
//	rec := formvalidator.NewRecorder()
//	form := v.NewForm(rec, fields)
//	outcome, err := s.Submit(ctx, formID, form, rec)
package formvalidator
