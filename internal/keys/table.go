package keys

// Entry pairs a code with its stable name.
type Entry struct {
	Code Code
	Name string
}

// Named extended keys.
const (
	Left     Code = 331
	Right    Code = 333
	Up       Code = 328
	Down     Code = 336
	PageUp   Code = 329
	PageDown Code = 337
	Home     Code = 327
	End      Code = 335
	Insert   Code = 338
	Delete   Code = 339
	F1       Code = 315
	F2       Code = 316
	F3       Code = 317
	F4       Code = 318
	F5       Code = 319
	F6       Code = 320
	F7       Code = 321
	F8       Code = 322
	F9       Code = 323
	F10      Code = 324
	F11      Code = 389
	F12      Code = 390
)

// Named plain keys that are easy to mistype as literals.
const (
	Tab    Code = 9
	Return Code = 13
	Escape Code = 27
	Space  Code = ' '
)

// fixedEntries follows the letters A..Z in the canonical order.
var fixedEntries = []Entry{
	{Tab, "Tab"},
	{Return, "Return"},
	{Escape, "Escape"},
	{Space, "Space"},
	{'0', "Zero"},
	{'1', "One"},
	{'2', "Two"},
	{'3', "Three"},
	{'4', "Four"},
	{'5', "Five"},
	{'6', "Six"},
	{'7', "Seven"},
	{'8', "Eight"},
	{'9', "Nine"},
	{':', "Colon"},
	{';', "Semicolon"},
	{'\'', "SingleQuote"},
	{'"', "DoubleQuote"},
	{',', "Comma"},
	{'<', "LessThan"},
	{'.', "Period"},
	{'>', "GreaterThan"},
	{'[', "LeftBracket"},
	{']', "RightBracket"},
	{'{', "LeftBrace"},
	{'}', "RightBrace"},
	{'\\', "Backslash"},
	{'|', "Pipe"},
	{'`', "Backtick"},
	{'~', "Tilde"},
	{'!', "ExclamationMark"},
	{'@', "At"},
	{'#', "Hash"},
	{'$', "Dollar"},
	{'%', "Percent"},
	{'^', "Caret"},
	{'&', "Ampersand"},
	{'*', "Asterisk"},
	{'(', "LeftParenthesis"},
	{')', "RightParenthesis"},
	{'-', "Minus"},
	{'+', "Plus"},
	{'_', "Underscore"},
	{'=', "Equals"},
	{'/', "Slash"},
	{'?', "QuestionMark"},

	{Left, "Left"},
	{Right, "Right"},
	{Up, "Up"},
	{Down, "Down"},
	{PageUp, "PageUp"},
	{PageDown, "PageDown"},
	{Home, "Home"},
	{End, "End"},
	{Insert, "Insert"},
	{Delete, "Delete"},
	{F1, "F1"},
	{F2, "F2"},
	{F3, "F3"},
	{F4, "F4"},
	{F5, "F5"},
	{F6, "F6"},
	{F7, "F7"},
	{F8, "F8"},
	{F9, "F9"},
	{F10, "F10"},
	{F11, "F11"},
	{F12, "F12"},
}

// entries, codeToName and nameToCode are built once in init and never
// mutated afterwards.
var (
	entries    []Entry
	codeToName map[Code]string
	nameToCode map[string]Code
)

func init() {
	entries = make([]Entry, 0, 26+len(fixedEntries))
	for c := 'A'; c <= 'Z'; c++ {
		entries = append(entries, Entry{Code: Code(c), Name: string(c)})
	}
	entries = append(entries, fixedEntries...)

	codeToName = make(map[Code]string, len(entries))
	nameToCode = make(map[string]Code, len(entries))
	for _, e := range entries {
		codeToName[e.Code] = e.Name
		nameToCode[e.Name] = e.Code
	}
}

// Name returns the table name for c.
func Name(c Code) (string, bool) {
	name, ok := codeToName[c]
	return name, ok
}

// Lookup returns the code registered under name. Names are case-sensitive.
func Lookup(name string) (Code, bool) {
	c, ok := nameToCode[name]
	return c, ok
}

// Entries returns a copy of the table in canonical order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Names returns a copy of the code-to-name table.
func Names() map[Code]string {
	out := make(map[Code]string, len(codeToName))
	for k, v := range codeToName {
		out[k] = v
	}
	return out
}

// Codes returns a copy of the name-to-code table.
func Codes() map[string]Code {
	out := make(map[string]Code, len(nameToCode))
	for k, v := range nameToCode {
		out[k] = v
	}
	return out
}
