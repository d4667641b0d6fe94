package commands

import (
	"slices"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

// listSeparator splits docs: and bullets: values into items.
const listSeparator = ";"

var taskFieldKeys = []string{"title", "desc", "cat", "timeline", "cost", "contact", "email", "phone", "docs", "contingency"}

var subTaskFieldKeys = []string{"heading", "desc", "timeline", "bullets"}

// fieldSet is a palette line split into free words and key:value fields.
// A value runs until the next recognised key, so it may contain spaces.
type fieldSet struct {
	free   string
	values map[string]string
}

func splitFields(args []string, keys ...string) fieldSet {
	out := fieldSet{values: map[string]string{}}
	freeParts := make([]string, 0, len(args))
	current := ""
	var valueParts []string
	flush := func() {
		if current != "" {
			out.values[current] = strings.TrimSpace(strings.Join(valueParts, " "))
		}
	}
	for _, arg := range args {
		if key, rest, ok := matchKey(arg, keys); ok {
			flush()
			current = key
			valueParts = []string{rest}
			continue
		}
		if current == "" {
			freeParts = append(freeParts, arg)
			continue
		}
		valueParts = append(valueParts, arg)
	}
	flush()
	out.free = strings.TrimSpace(strings.Join(freeParts, " "))
	return out
}

func matchKey(arg string, keys []string) (string, string, bool) {
	name, rest, ok := strings.Cut(arg, ":")
	if !ok {
		return "", "", false
	}
	name = strings.ToLower(name)
	if !slices.Contains(keys, name) {
		return "", "", false
	}
	return name, rest, true
}

func (f fieldSet) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f fieldSet) get(key string) *string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	return &v
}

func (f fieldSet) list(key string) *[]string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	items := splitList(v)
	return &items
}

func splitList(v string) []string {
	items := []string{}
	for _, part := range strings.Split(v, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// bulletList treats each separator in a bullets: value as a line break.
func bulletList(v string) []string {
	return model.ParseBulletPoints(strings.ReplaceAll(v, listSeparator, "\n"))
}

// TaskFields holds the task fields named on a palette line; nil means the
// field was not given and an empty string clears it.
type TaskFields struct {
	Title         *string
	Description   *string
	Category      *string
	Timeline      *string
	Cost          *string
	Contingencies *string
	ContactName   *string
	ContactEmail  *string
	ContactPhone  *string
	Documents     *[]string
}

func taskFieldsFrom(f fieldSet) TaskFields {
	return TaskFields{
		Title:         f.get("title"),
		Description:   f.get("desc"),
		Category:      f.get("cat"),
		Timeline:      f.get("timeline"),
		Cost:          f.get("cost"),
		Contingencies: f.get("contingency"),
		ContactName:   f.get("contact"),
		ContactEmail:  f.get("email"),
		ContactPhone:  f.get("phone"),
		Documents:     f.list("docs"),
	}
}

func (t TaskFields) IsZero() bool {
	return t == (TaskFields{})
}

// ApplyMetadata overlays the given metadata fields on a copy of m. A contact
// left with no name, email or phone is dropped.
func (t TaskFields) ApplyMetadata(m model.TaskMetadata) model.TaskMetadata {
	out := m.Clone()
	overlay(&out.Timeline, t.Timeline)
	overlay(&out.Cost, t.Cost)
	overlay(&out.Contingencies, t.Contingencies)
	if t.Documents != nil {
		out.DocumentsNeeded = slices.Clone(*t.Documents)
		if len(out.DocumentsNeeded) == 0 {
			out.DocumentsNeeded = nil
		}
	}
	if t.ContactName != nil || t.ContactEmail != nil || t.ContactPhone != nil {
		c := model.Contact{}
		if out.Contact != nil {
			c = *out.Contact
		}
		overlay(&c.Name, t.ContactName)
		overlay(&c.Email, t.ContactEmail)
		overlay(&c.Phone, t.ContactPhone)
		out.Contact = &c
		if c.IsZero() {
			out.Contact = nil
		}
	}
	return out
}

func overlay(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
