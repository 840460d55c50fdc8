package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chidiwilliams/loxi/lox"
	"github.com/chidiwilliams/loxi/report"
)

func Test_Run(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stdOut string
	}{
		// atoms
		{"string", "print \"hello world\";", "hello world\n"},
		{"number", "print 342.25;", "342.25\n"},
		{"string as boolean", "print \"\" and 34;", "34\n"},
		{"nil as boolean", "print nil and 34;", "nil\n"},

		// comments
		{"single-line comment after source", "print 1 + 1; // hello", "2\n"},
		{"single-line comment", `// hello
print 1 + 1;`, "2\n"},

		// unary and binary operations
		{"arithmetic operations", "print -1 + 2 * 3 - 8 / 4;", "3\n"},
		{"logical operations", "print (!true or false) and false;", "false\n"},
		{"string concatenation", "print \"hello\" + \" \" + \"world\";", "hello world\n"},
		{"greater than or equal to", "print 4 >= 3 and 3 >= 3 and 2 >= 3;", "false\n"},
		{"less than or equal to", "print 4 <= 5 and 5 <= 5 and 6 <= 5;", "false\n"},
		{"equal to", "print 5 == 5 and 4 == 5;", "false\n"},
		{"not equal to", "print 4 != 5 and 5 != 5;", "false\n"},

		// variables
		{"variable declaration", "var a = 10; print a*2;", "20\n"},
		{"variable assignment after declaration", "var a; a = 20; print a*2;", "40\n"},
		{"variable re-assignment", "var a = 10; print a; a = 20; print a*2;", "10\n40\n"},

		// block scoping
		{"block scoping", `var a = "global a";
var b = "global b";
var c = "global c";
{
    var a = "outer a";
    var b = "outer b";
    {
        var a = "inner a";
        print a;
        print b;
        print c;
    }
    print a;
    print b;
    print c;
}
print a;
print b;
print c;`, "inner a\nouter b\nglobal c\nouter a\nouter b\nglobal c\nglobal a\nglobal b\nglobal c\n"},

		// conditionals
		{"if block", "if (true) { if (false) { print \"hello\"; } else { print \"world\"; } }", "world\n"},

		// loops
		{"for loop", `var a = 0;
var temp;

for (var b = 1; a < 10; b = temp + b) {
    print a;
    temp = a;
    a = b;
}`, "0\n1\n1\n2\n3\n5\n8\n"},
		{"while loop", `var a = 0;
var temp;
var b = 1;

while (a < 10) {
    print a;
    temp = a;
    a = b;
		b = temp + b;
}`, "0\n1\n1\n2\n3\n5\n8\n"},
		{"break statement", `var a = 1;
while (true) {
		a = a + 1;
		print a;
		if (a == 4) break;
}`, "2\n3\n4\n"},
		{"continue statement", `var a = 1;
while (a < 10) {
		a = a * 2;
		print a;
		if (a > 4) {
			continue;
		} else {
			a = a + 1;
		}
}`, "2\n6\n12\n"},

		// functions
		{"function", `fun sayHi(first, last) {
    print "Hello, " + first + " " + last;
}

sayHi("Dear", "Reader");`, "Hello, Dear Reader\n"},
		{"return statement", `fun sayHi(first, last) {
    return "Hello, " + first + " " + last;
}

print sayHi("Dear", "Reader");`, "Hello, Dear Reader\n"},
		{"closure", `fun makeCounter() {
		var i = 0;
		fun count() {
				i = i + 1;
				print i;
		}
		return count;
}

var counter = makeCounter();
counter();
counter();`, "1\n2\n"},
		{"anonymous function", `fun makeCounter() {
		var i = 0;
		return fun () {
				i = i + 1;
				print i;
		};
}

var counter = makeCounter();
counter();
counter();`, "1\n2\n"},
		{"iife", `(fun (next) {
		print next;
})(1);`, "1\n"},

		// classes
		{"class instance", "class Bagel {} print Bagel();", "<instance Bagel>\n"},
		{"getters and class methods", `class Temperature {
    init(celsius) { this.celsius = celsius; }
    fahrenheit { return this.celsius * 9 / 5 + 32; }
    class freezing() { return Temperature(0); }
}
print Temperature(100).fahrenheit;
print Temperature.freezing().fahrenheit;`, "212\n32\n"},
		{"super call", `class Doughnut {
    cook() { print "Fry until golden brown."; }
}
class BostonCream < Doughnut {
    cook() {
        super.cook();
        print "Pipe full of custard and coat with chocolate.";
    }
}
BostonCream().cook();`, "Fry until golden brown.\nPipe full of custard and coat with chocolate.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdOut := &bytes.Buffer{}
			stdErr := &bytes.Buffer{}
			session := lox.NewSession(stdOut, report.NewStream(stdErr), nil)
			_ = session.Run(tt.source)

			if stdErr.Len() > 0 {
				t.Fatalf("stdErr: %s", stdErr)
			}
			if stdOut.String() != tt.stdOut {
				t.Fatalf("stdOut: got %s, expected %s", stdOut, tt.stdOut)
			}
		})
	}
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_RunScript(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "prompt: \"lox> \"\n")

	tests := []struct {
		name   string
		source string
		code   int
		stdOut string
	}{
		{"success", "print 1;", 0, "1\n"},
		{"syntax error", "print 1;\nprint (;", exitStatic, ""},
		{"top-level return", "return 1;", exitStatic, ""},
		{"runtime error", "print 1;\nprint -\"a\";", exitRuntime, "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeFile(t, "script.lox", tt.source)
			stdOut := &bytes.Buffer{}
			stdErr := &bytes.Buffer{}

			code := run([]string{"-config", configPath, script}, stdOut, stdErr)
			if code != tt.code {
				t.Fatalf("exit code: got %d, expected %d (stderr %q)", code, tt.code, stdErr)
			}
			if stdOut.String() != tt.stdOut {
				t.Fatalf("stdOut: got %q, expected %q", stdOut, tt.stdOut)
			}
		})
	}
}

func Test_RunUsage(t *testing.T) {
	stdErr := &bytes.Buffer{}
	if code := run([]string{"a.lox", "b.lox"}, &bytes.Buffer{}, stdErr); code != exitUsage {
		t.Errorf("too many arguments: got exit code %d", code)
	}
	if code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "a.lox"}, &bytes.Buffer{}, stdErr); code != exitUsage {
		t.Errorf("missing config: got exit code %d", code)
	}
}

func Test_RunPrintAST(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "print_ast: true\n")
	script := writeFile(t, "script.lox", "print 1;")
	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}

	if code := run([]string{"-config", configPath, script}, stdOut, stdErr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stdErr)
	}
	if stdErr.String() != "(print 1)\n" {
		t.Errorf("stdErr: got %q", stdErr)
	}

	stdErr.Reset()
	if code := run([]string{"-config", configPath, "-ast=false", script}, stdOut, stdErr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stdErr)
	}
	if stdErr.Len() != 0 {
		t.Errorf("the -ast flag should override the config file, got %q", stdErr)
	}
}

func Test_loadConfig(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     config
		wantErr  bool
	}{
		{"empty file keeps defaults", "", defaultConfig(), false},
		{"all keys", "prompt: \"lox> \"\nhistory_file: /tmp/h\nprint_ast: true\ndebug: true\n",
			config{Prompt: "lox> ", HistoryFile: "/tmp/h", PrintAST: true, Debug: true}, false},
		{"empty prompt falls back", "prompt: \"\"\n", defaultConfig(), false},
		{"unknown key", "colour: red\n", config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(writeFile(t, "config.yaml", tt.contents))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg != tt.want {
				t.Errorf("got %+v, expected %+v", cfg, tt.want)
			}
		})
	}
}
