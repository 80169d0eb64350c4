package parse

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIntConv(t *testing.T) {
	var x int64
	ok := intConv(&x)("41891")
	if !ok {
		t.Errorf("intConv unsuccessful on valid input.")
	}
	if x != 41891 {
		t.Errorf("intConv did not write input to pointer.")
	}
	ok = intConv(&x)("meow")
	if ok {
		t.Errorf("intConv successful on invalid input.")
	}
}

func TestFloatConv(t *testing.T) {
	var x float64
	ok := floatConv(&x)("41891.0")
	if !ok {
		t.Errorf("floatConv unsuccessful on valid input.")
	}
	if x != 41891.0 {
		t.Errorf("floatConv did not write input to pointer.")
	}
	ok = floatConv(&x)("meow")
	if ok {
		t.Errorf("floatConv successful on invalid input.")
	}
}

func TestStringConv(t *testing.T) {
	var x string
	ok := stringConv(&x)("  41891")
	if !ok {
		t.Errorf("stringConv unsuccessful on valid input.")
	}
	if x != "41891" {
		t.Errorf("stringConv did not write input to pointer.")
	}
}

func TestBoolConv(t *testing.T) {
	var x bool
	ok := boolConv(&x)("true")
	if !ok {
		t.Errorf("boolConv unsuccessful on valid input.")
	}
	if x != true {
		t.Errorf("boolConv did not write input to pointer.")
	}
	ok = boolConv(&x)("meow")
	if ok {
		t.Errorf("boolConv successful on invalid input.")
	}
}

func TestListConv(t *testing.T) {
	var ints []int64
	if !intsConv(&ints)("1, 2 , 3") || !int64sEq(ints, []int64{1, 2, 3}) {
		t.Errorf("intsConv gave %v on valid input.", ints)
	}
	if intsConv(&ints)("1,meow,3") {
		t.Errorf("intsConv successful on invalid input.")
	}
	if !int64sEq(ints, []int64{1, 2, 3}) {
		t.Errorf("intsConv overwrote its target on invalid input.")
	}

	floats := []float64{7}
	if !floatsConv(&floats)("1, 2.5 , 3") ||
		!floatsEq(floats, []float64{1, 2.5, 3}, 0) {
		t.Errorf("floatsConv gave %v on valid input.", floats)
	}

	var strs []string
	if !stringsConv(&strs)("dorothy, maddy , sahil") ||
		!stringsEq(strs, []string{"dorothy", "maddy", "sahil"}) {
		t.Errorf("stringsConv gave %v on valid input.", strs)
	}

	var bools []bool
	if !boolsConv(&bools)("true, false,    true") ||
		!boolsEq(bools, []bool{true, false, true}) {
		t.Errorf("boolsConv gave %v on valid input.", bools)
	}
	if boolsConv(&bools)("true,meow,false") {
		t.Errorf("boolsConv successful on invalid input.")
	}

	if !floatsConv(&floats)("") || len(floats) != 0 {
		t.Errorf("floatsConv gave %v on an empty list.", floats)
	}
}

func stringsEq(xs, ys []string) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func intsEq(xs, ys []int) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func TestRemoveComments(t *testing.T) {
	table := []struct {
		in, out  []string
		lineNums []int
	}{
		{[]string{}, []string{}, []int{}},
		{[]string{"meow"}, []string{"meow"}, []int{0}},
		{[]string{"#meow"}, []string{}, []int{}},
		{[]string{"meow", " # comment", "", "   mew \t"},
			[]string{"meow", "mew"}, []int{0, 3}},
	}

	for i := range table {
		res, lineNums := removeComments(table[i].in)
		if !stringsEq(table[i].out, res) {
			t.Errorf("%d) Called removeComments(%v), got %v",
				i+1, table[i].in, res)
		}
		if !intsEq(table[i].lineNums, lineNums) {
			t.Errorf("%d) Called removeComments(%v), got %v linenNums",
				i+1, table[i].in, lineNums)
		}
	}
}

func toLines(text ...string) []line {
	lines := make([]line, len(text))
	for i := range text {
		lines[i] = line{text[i], i + 1}
	}
	return lines
}

func TestAssociationList(t *testing.T) {
	table := []struct {
		lines       []string
		names, vals []string
		errLine     int
	}{
		{[]string{"a=b"}, []string{"a"}, []string{"b"}, -1},
		{[]string{"a"}, []string{}, []string{}, 0},
		{[]string{"=b"}, []string{}, []string{}, 0},
		{[]string{"a=b", "c=", " A = "},
			[]string{"a", "c", "a"},
			[]string{"b", "", ""}, -1},
		{[]string{"a = x = y"}, []string{"a"}, []string{"x = y"}, -1},
	}

	for i := range table {
		names, vals, errLine := associationList(toLines(table[i].lines...))
		if errLine != table[i].errLine {
			t.Errorf("%d) Expected errLine = %d, got %d",
				i+1, table[i].errLine, errLine)
		}
		if errLine != -1 {
			continue
		}

		if !stringsEq(names, table[i].names) {
			t.Errorf("%d) Expected names = %v, got %v.",
				i+1, table[i].names, names)
		}
		if !stringsEq(vals, table[i].vals) {
			t.Errorf("%d) Expected vals = %v, got %v.",
				i+1, table[i].vals, vals)
		}
	}
}

func TestCheckDuplicateNames(t *testing.T) {
	table := []struct {
		names []string
		i, j  int
	}{
		{[]string{"a", "b", "c"}, -1, -1},
		{[]string{"a", "b", "b", "c", "c"}, 1, 2},
		{[]string{"a", "b", "c", "a"}, 0, 3},
	}

	for k := range table {
		i, j := checkDuplicateNames(table[k].names)
		if i != table[k].i || j != table[k].j {
			t.Errorf("%d) expected (i, j) = (%d, %d) but got (%d, %d)",
				k+1, table[k].i, table[k].j, i, j)
		}
	}
}

func TestCheckValidNames(t *testing.T) {
	table := []struct {
		names, vars []string
		i           int
	}{
		{[]string{"a", "b", "c"}, []string{"a", "b", "c", "d"}, -1},
		{[]string{"a", "b", "c"}, []string{"a", "b", "d"}, 2},
		{[]string{"a", "a", "a"}, []string{"a", "b", "c", "d"}, -1},
	}

	for j := range table {
		vars := NewConfigVars("test")
		for _, name := range table[j].vars {
			var x bool
			vars.Bool(&x, name, false)
		}
		i := checkValidNames(table[j].names, vars)
		if i != table[j].i {
			t.Errorf("%d) expected i = %d, but got %d", j+1, table[j].i, i)
		}
	}
}

func floatEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps
}

func floatsEq(xs, ys []float64, eps float64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !floatEq(xs[i], ys[i], eps) {
			return false
		}
	}
	return true
}

func boolsEq(xs, ys []bool) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}

	return true
}

func int64sEq(xs, ys []int64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

type testConfig struct {
	float  float64
	floats []float64
	num    int64
	nums   []int64
	okay   bool
	okays  []bool
	word   string
	words  []string
}

func makeTestConfig() (*testConfig, *ConfigVars) {
	config := &testConfig{}
	vars := NewConfigVars("config")
	vars.Int(&config.num, "Num", 0)
	vars.Ints(&config.nums, "Nums", []int64{})
	vars.Float(&config.float, "Float", 0)
	vars.Floats(&config.floats, "Floats", []float64{})
	vars.Bool(&config.okay, "Okay", false)
	vars.Bools(&config.okays, "Okays", []bool{})
	vars.String(&config.word, "Word", "purr")
	vars.Strings(&config.words, "Words", []string{})

	return config, vars
}

const validConfig = `# A config file with every type of variable.
[config]

Num    = 3
Nums   = 1, 1, 2, 3, 5
float  = -1.2e4 # variable names are case insensitive
Floats = 2.5, 2.5, 2.5
Okay   = true
Okays  = true, false, true
Words  = dorothy, maddy, sahil
`

func TestValidConfig(t *testing.T) {
	config, vars := makeTestConfig()
	err := ReadConfigFrom(strings.NewReader(validConfig), "valid.config", vars)
	if err != nil {
		t.Fatalf("Expected successful read of config file, but got "+
			"error:\n %s", err.Error())
	}

	if !floatEq(config.float, -1.2e4, 1) {
		t.Errorf("Expected float = %g, but got %g", -1.2e4, config.float)
	}
	if !floatsEq([]float64{2.5, 2.5, 2.5}, config.floats, 0.001) {
		t.Errorf("Expected floats = %v, but got %v.",
			[]float64{2.5, 2.5, 2.5}, config.floats)
	}

	if config.num != 3 {
		t.Errorf("Expected num = %d, but got %d", 3, config.num)
	}
	if !int64sEq(config.nums, []int64{1, 1, 2, 3, 5}) {
		t.Errorf("Expected nums = %v, but got %v",
			[]int64{1, 1, 2, 3, 5}, config.nums)
	}

	if config.okay != true {
		t.Errorf("Expected okay = %v, but got %v", true, config.okay)
	}
	if !boolsEq(config.okays, []bool{true, false, true}) {
		t.Errorf("Expected okays = %v, buf got %v",
			[]bool{true, false, true}, config.okays)
	}

	if config.word != "purr" {
		t.Errorf("Expected the default word = %v, but got %v",
			"purr", config.word)
	}
	if !stringsEq([]string{"dorothy", "maddy", "sahil"}, config.words) {
		t.Errorf("Expected words = %v, but got %v",
			[]string{"dorothy", "maddy", "sahil"}, config.words)
	}
}

func TestInvalidConfig(t *testing.T) {
	table := []struct {
		name, text string
		line       int
	}{
		{"empty", "", 0},
		{"comments only", "# [config]\n", 0},
		{"wrong header", "[konfig]\nNum = 3\n", 0},
		{"non assignment", "[config]\nNum = 3\nWord\n", 3},
		{"no variable", "[config]\n\n = 3\n", 3},
		{"duplicates", "[config]\nNum = 3\nWord = a\nnum = 4\n", 4},
		{"invalid var", "[config]\nNum = 3\nCat = meow\n", 3},
		{"invalid type", "[config]\nNum = 3\nOkays = true, meow\n", 3},
	}

	for i := range table {
		_, vars := makeTestConfig()
		err := ReadConfigFrom(strings.NewReader(table[i].text),
			table[i].name, vars)

		var cErr *ConfigError
		if err == nil {
			t.Errorf("No error was reported when attempting to parse %s",
				table[i].name)
		} else if !errors.As(err, &cErr) {
			t.Errorf("%s) Expected a *ConfigError, got %v", table[i].name, err)
		} else if cErr.Line != table[i].line || cErr.Source != table[i].name {
			t.Errorf("%s) Expected error on line %d, got line %d of %s: %s",
				table[i].name, table[i].line, cErr.Line, cErr.Source,
				err.Error())
		}
	}
}

func TestInvalidTypeMessage(t *testing.T) {
	_, vars := makeTestConfig()
	text := "[config]\nOkays = true, meow\n"
	err := ReadConfigFrom(strings.NewReader(text), "bad.config", vars)
	if err == nil {
		t.Fatalf("Expected an error.")
	}
	msg := err.Error()
	if !strings.Contains(msg, "'true, meow'") ||
		!strings.Contains(msg, "a bool list") {
		t.Errorf("Unhelpful error message: %s", msg)
	}
}

func TestReadConfigFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.config")
	if err := os.WriteFile(fname, []byte(validConfig), 0644); err != nil {
		t.Fatal(err)
	}

	config, vars := makeTestConfig()
	if err := ReadConfig(fname, vars); err != nil {
		t.Fatalf("ReadConfig(%s) gave error %s.", fname, err.Error())
	}
	if config.num != 3 {
		t.Errorf("Expected num = 3, got %d.", config.num)
	}

	if err := ReadConfig(fname+".missing", vars); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist for a missing file, got %v.", err)
	}
}

func TestValidFlags(t *testing.T) {
	config, vars := makeTestConfig()
	flags := []string{
		"--Num", "16",
		"--Nums", "1, 2, 3, 4, 5",
		"--Float", "16",
		"--Floats", "1", "2", "3", "4", "5",
		"--Okay", "true",
		"---Okays", "true, true", "false",
	}

	err := ReadFlags(flags, vars)
	if err != nil {
		t.Errorf("Could not parse valid flags: got the error '%s'", err.Error())
	}
	switch {
	case config.num != 16:
		t.Errorf("Flag Num not set.")
	case !int64sEq(config.nums, []int64{1, 2, 3, 4, 5}):
		t.Errorf("Flag Nums not set.")
	case config.float != 16:
		t.Errorf("Flag Float not set.")
	case !floatsEq(config.floats, []float64{1, 2, 3, 4, 5}, 0.001):
		t.Errorf("Flag Floats not set.")
	case !config.okay:
		t.Errorf("Flag Okay not set.")
	case !boolsEq(config.okays, []bool{true, true, false}):
		t.Errorf("Flag Okays not set.")
	}
}

func TestInvalidFlags(t *testing.T) {
	table := [][]string{
		{"Num", "16"},
		{"--Num"},
		{"--Num", "1", "2"},
		{"--Num", "meow"},
		{"--Cat", "meow"},
		{"--Okays", "true", "meow"},
	}

	for i := range table {
		_, vars := makeTestConfig()
		if err := ReadFlags(table[i], vars); err == nil {
			t.Errorf("%d) No error was reported for the flags %v.",
				i+1, table[i])
		}
	}
}
