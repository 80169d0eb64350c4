/*package parse reads the INI-like config files used by toolbox modes.

A config file starts with a "[name]" header and is followed by lines of the
form "Variable = value". Variable names are case insensitive, list values are
comma separated, and everything after a '#' is a comment.
*/
package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/////////////////////
// Conversion Code //
/////////////////////

type varType int

const (
	intVar varType = iota
	intsVar
	floatVar
	floatsVar
	stringVar
	stringsVar
	boolVar
	boolsVar
)

func (v varType) String() string {
	switch v {
	case intVar:
		return "int"
	case intsVar:
		return "int list"
	case floatVar:
		return "float"
	case floatsVar:
		return "float list"
	case stringVar:
		return "string"
	case stringsVar:
		return "string list"
	case boolVar:
		return "bool"
	case boolsVar:
		return "bool list"
	}
	panic("Impossible")
}

// article returns the indefinite article which goes before the type name.
func (v varType) article() string {
	if s := v.String(); s[0] == 'i' {
		return "an"
	}
	return "a"
}

type conversionFunc func(string) bool

type configVar struct {
	name string
	typ  varType
	conv conversionFunc
}

// ConfigVars is the set of variables a config file with a given header is
// allowed to assign to. Each variable is bound to a pointer which receives
// its default when registered and its parsed value when a file is read.
type ConfigVars struct {
	name string
	vars []configVar
}

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false
		}
		*ptr = i
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.TrimSpace(s)
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		*ptr = b
		return true
	}
}

// strToList splits a comma-separated list. The empty string is the empty
// list.
func strToList(a string) []string {
	if strings.TrimSpace(a) == "" {
		return []string{}
	}
	strs := strings.Split(a, ",")
	for i := range strs {
		strs[i] = strings.TrimSpace(strs[i])
	}
	return strs
}

// listConv builds a list conversion out of an element conversion. The
// target is only overwritten if every element converts.
func listConv[T any](ptr *[]T, elem func(string) (T, error)) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]T, 0, len(toks))
		for _, tok := range toks {
			x, err := elem(tok)
			if err != nil {
				return false
			}
			out = append(out, x)
		}
		*ptr = out
		return true
	}
}

func intsConv(ptr *[]int64) conversionFunc {
	return listConv(ptr, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func floatsConv(ptr *[]float64) conversionFunc {
	return listConv(ptr, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func stringsConv(ptr *[]string) conversionFunc {
	return listConv(ptr, func(s string) (string, error) { return s, nil })
}

func boolsConv(ptr *[]bool) conversionFunc {
	return listConv(ptr, strconv.ParseBool)
}

// NewConfigVars creates an empty variable set for files with the header
// [name].
func NewConfigVars(name string) *ConfigVars {
	return &ConfigVars{name: name}
}

// Name returns the header name of the config file.
func (vars *ConfigVars) Name() string { return vars.name }

func (vars *ConfigVars) add(name string, typ varType, conv conversionFunc) {
	vars.vars = append(vars.vars, configVar{strings.ToLower(name), typ, conv})
}

func (vars *ConfigVars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	vars.add(name, intVar, intConv(ptr))
}

func (vars *ConfigVars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, floatVar, floatConv(ptr))
}

func (vars *ConfigVars) String(ptr *string, name string, value string) {
	*ptr = value
	vars.add(name, stringVar, stringConv(ptr))
}

func (vars *ConfigVars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	vars.add(name, boolVar, boolConv(ptr))
}

func (vars *ConfigVars) Ints(ptr *[]int64, name string, value []int64) {
	*ptr = value
	vars.add(name, intsVar, intsConv(ptr))
}

func (vars *ConfigVars) Floats(ptr *[]float64, name string, value []float64) {
	*ptr = value
	vars.add(name, floatsVar, floatsConv(ptr))
}

func (vars *ConfigVars) Strings(ptr *[]string, name string, value []string) {
	*ptr = value
	vars.add(name, stringsVar, stringsConv(ptr))
}

func (vars *ConfigVars) Bools(ptr *[]bool, name string, value []bool) {
	*ptr = value
	vars.add(name, boolsVar, boolsConv(ptr))
}

func (vars *ConfigVars) lookup(name string) (configVar, bool) {
	for _, v := range vars.vars {
		if v.name == name {
			return v, true
		}
	}
	return configVar{}, false
}

//////////////////
// Parsing Code //
//////////////////

// ConfigError describes a problem with a config file. Line is zero when the
// problem is not tied to a specific line.
type ConfigError struct {
	Source string
	Line   int
	msg    string
}

func (err *ConfigError) Error() string { return err.msg }

// line is a non-empty, comment-free line of a config file along with its
// 1-indexed line number.
type line struct {
	text string
	num  int
}

// ReadConfig reads the config file fname into vars.
func ReadConfig(fname string, vars *ConfigVars) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadConfigFrom(f, fname, vars)
}

// ReadConfigFrom reads a config file from r into vars. source names the
// stream in error messages.
func ReadConfigFrom(r io.Reader, source string, vars *ConfigVars) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("[%s]", vars.name)
	if len(lines) == 0 || lines[0].text != header {
		return &ConfigError{source, 0, fmt.Sprintf(
			"I expected the config file %s to have the header "+
				"%s at the top, but didn't find it.", source, header,
		)}
	}
	lines = lines[1:]

	names, vals, errLine := associationList(lines)
	if errLine != -1 {
		num := lines[errLine].num
		return &ConfigError{source, num, fmt.Sprintf(
			"I could not parse line %d of the config file %s because it "+
				"did not take the form of a variable assignment.", num, source,
		)}
	}

	if errLine = checkValidNames(names, vars); errLine != -1 {
		num := lines[errLine].num
		return &ConfigError{source, num, fmt.Sprintf(
			"Line %d of the config file %s assigns a value to the "+
				"variable '%s', but config files of type %s don't have that "+
				"variable.", num, source, names[errLine], vars.name,
		)}
	}

	if errLine1, errLine2 := checkDuplicateNames(names); errLine1 != -1 {
		num1, num2 := lines[errLine1].num, lines[errLine2].num
		return &ConfigError{source, num2, fmt.Sprintf(
			"Lines %d and %d of the config file %s both assign a value to "+
				"the variable '%s'.", num1, num2, source, names[errLine1],
		)}
	}

	if errLine = convertAssoc(names, vals, vars); errLine != -1 {
		num := lines[errLine].num
		v, _ := vars.lookup(names[errLine])
		return &ConfigError{source, num, fmt.Sprintf(
			"I could not parse line %d of the config file %s because '%s' "+
				"expects values of type %s and '%s' cannot be converted to "+
				"%s %s.", num, source, v.name, v.typ, vals[errLine],
			v.typ.article(), v.typ,
		)}
	}

	return nil
}

func readLines(r io.Reader) ([]line, error) {
	var raw []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	text, nums := removeComments(raw)
	lines := make([]line, len(text))
	for i := range text {
		lines[i] = line{text[i], nums[i] + 1}
	}
	return lines, nil
}

// removeComments strips comments and blank lines, returning the remaining
// lines and their 0-indexed positions in the input.
func removeComments(lines []string) ([]string, []int) {
	out, lineNums := []string{}, []int{}
	for i, l := range lines {
		if comment := strings.IndexByte(l, '#'); comment != -1 {
			l = l[:comment]
		}
		l = strings.TrimSpace(l)
		if len(l) == 0 {
			continue
		}
		out = append(out, l)
		lineNums = append(lineNums, i)
	}

	return out, lineNums
}

func associationList(lines []line) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		name, val, ok := strings.Cut(lines[i].text, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || len(name) == 0 {
			return nil, nil, i
		}
		names = append(names, name)
		vals = append(vals, strings.TrimSpace(val))
	}
	return names, vals, -1
}

func checkValidNames(names []string, vars *ConfigVars) int {
	for i := range names {
		if _, ok := vars.lookup(names[i]); !ok {
			return i
		}
	}
	return -1
}

func checkDuplicateNames(names []string) (int, int) {
	seen := map[string]int{}
	for j, name := range names {
		if i, ok := seen[name]; ok {
			return i, j
		}
		seen[name] = j
	}
	return -1, -1
}

func convertAssoc(names, vals []string, vars *ConfigVars) int {
	for i := range names {
		v, _ := vars.lookup(names[i])
		if !v.conv(vals[i]) {
			return i
		}
	}
	return -1
}

// ReadFlags applies command line overrides of the form
// "--Variable value [value ...]" to vars. Values which follow the same
// variable are joined into a list, so "--Floats 1 2 3" and "--Floats 1,2,3"
// are equivalent. Scalar variables take exactly one value.
func ReadFlags(flags []string, vars *ConfigVars) error {
	for i := 0; i < len(flags); {
		if !strings.HasPrefix(flags[i], "--") {
			return fmt.Errorf("I expected the command line argument '%s' "+
				"to be a flag starting with '--', but it isn't.", flags[i])
		}
		name := strings.ToLower(strings.TrimLeft(flags[i], "-"))
		v, ok := vars.lookup(name)
		if !ok {
			return fmt.Errorf("The flag '%s' doesn't correspond to any "+
				"variable in config files of type %s.", flags[i], vars.name)
		}

		j := i + 1
		for j < len(flags) && !strings.HasPrefix(flags[j], "--") {
			j++
		}
		vals := flags[i+1 : j]

		switch {
		case len(vals) == 0:
			return fmt.Errorf("The flag '%s' wasn't given a value.", flags[i])
		case len(vals) > 1 && !v.typ.isList():
			return fmt.Errorf("The flag '%s' expects a single %s, but was "+
				"given %d values.", flags[i], v.typ, len(vals))
		}

		val := strings.Join(vals, ",")
		if !v.conv(val) {
			return fmt.Errorf("I could not parse the flag '%s' because it "+
				"expects values of type %s and '%s' cannot be converted to "+
				"%s %s.", flags[i], v.typ, strings.Join(vals, " "),
				v.typ.article(), v.typ)
		}
		i = j
	}
	return nil
}

func (v varType) isList() bool {
	switch v {
	case intsVar, floatsVar, stringsVar, boolsVar:
		return true
	}
	return false
}
