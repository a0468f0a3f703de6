// Package form owns the draft state behind create/edit screens: an ordered
// set of fields, the user's in-progress values, and required-field checks.
package form

import "strings"

// Field describes one entry of a create/edit form.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// Draft is an unsaved, locally mutated copy of a record. It is created when a
// form opens, discarded on cancel, and promoted to a persisted record only
// after a successful submit.
type Draft struct {
	fields []Field
	values map[string]string
	errs   map[string]string
	edit   bool
}

// New builds a draft for the given fields. A non-nil initial map seeds an
// edit form; nil means a create form.
func New(fields []Field, initial map[string]string) *Draft {
	d := &Draft{
		fields: fields,
		values: make(map[string]string, len(fields)),
		errs:   map[string]string{},
		edit:   initial != nil,
	}
	for _, f := range fields {
		if initial != nil {
			d.values[f.Name] = initial[f.Name]
		}
	}
	return d
}

// Editing reports whether the draft started from an existing record.
func (d *Draft) Editing() bool { return d.edit }

// Fields returns the ordered field definitions.
func (d *Draft) Fields() []Field { return d.fields }

// Set records a field value and clears any stale error for it.
func (d *Draft) Set(name, value string) {
	d.values[name] = value
	delete(d.errs, name)
}

// Get returns the current value for a field.
func (d *Draft) Get(name string) string { return d.values[name] }

// Values returns a copy of the current field values.
func (d *Draft) Values() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Validate checks required fields and returns a field→message map. An empty
// map means the draft may be submitted. Errors remain available via Errors
// until the offending fields are set again.
func (d *Draft) Validate() map[string]string {
	errs := map[string]string{}
	for _, f := range d.fields {
		if f.Required && strings.TrimSpace(d.values[f.Name]) == "" {
			errs[f.Name] = f.Label + " is required"
		}
	}
	d.errs = errs
	return errs
}

// Valid reports whether the last Validate passed.
func (d *Draft) Valid() bool { return len(d.errs) == 0 }

// Error returns the message for a field from the last Validate, if any.
func (d *Draft) Error(name string) string { return d.errs[name] }
