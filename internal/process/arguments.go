package process

import "strings"

type fragment struct {
	text    string
	literal bool
	when    func() bool
}

func (f fragment) included() bool {
	return f.text != "" && (f.when == nil || f.when())
}

// Arguments is an ordered list of argument fragments. A fragment may hold
// several whitespace separated tokens ("metadata ./docfx.json"); a literal
// fragment is always a single token.
type Arguments struct {
	fragments []fragment
}

// NewArguments returns arguments made of the given fragments.
func NewArguments(fragments ...string) *Arguments {
	a := &Arguments{}
	return a.Add(fragments...)
}

// Add appends unconditional fragments.
func (a *Arguments) Add(fragments ...string) *Arguments {
	for _, f := range fragments {
		a.fragments = append(a.fragments, fragment{text: f})
	}
	return a
}

// AddIf appends a fragment that is only rendered when cond is true.
func (a *Arguments) AddIf(cond bool, fragment string) *Arguments {
	return a.AddWhen(func() bool { return cond }, fragment)
}

// AddWhen appends a fragment whose condition is evaluated at render time.
func (a *Arguments) AddWhen(cond func() bool, text string) *Arguments {
	a.fragments = append(a.fragments, fragment{text: text, when: cond})
	return a
}

// AddLiteral appends a single token that is passed through unsplit, even if
// it contains spaces.
func (a *Arguments) AddLiteral(token string) *Arguments {
	a.fragments = append(a.fragments, fragment{text: token, literal: true})
	return a
}

// Append adds all fragments of other, keeping their conditions.
func (a *Arguments) Append(other *Arguments) *Arguments {
	if other != nil {
		a.fragments = append(a.fragments, other.fragments...)
	}
	return a
}

// Render joins the included fragments with single spaces.
func (a *Arguments) Render() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, len(a.fragments))
	for _, f := range a.fragments {
		if f.included() {
			parts = append(parts, f.text)
		}
	}
	return strings.Join(parts, " ")
}

// Argv returns the tokens handed to the executable.
func (a *Arguments) Argv() []string {
	if a == nil {
		return nil
	}
	var argv []string
	for _, f := range a.fragments {
		if !f.included() {
			continue
		}
		if f.literal {
			argv = append(argv, f.text)
			continue
		}
		argv = append(argv, strings.Fields(f.text)...)
	}
	return argv
}

// String implements fmt.Stringer.
func (a *Arguments) String() string { return a.Render() }
