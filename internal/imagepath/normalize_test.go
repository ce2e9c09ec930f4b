package imagepath

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   \t", ""},
		{"dot relative", "./images/foo.png", "images/foo.png"},
		{"repeated dot slash", "././/images/foo.png", "images/foo.png"},
		{"slash then dot slash", "/./x", "images/x"},
		{"slashes then dot slash", "//./a/b", "a/b"},
		{"inner dot segment", "a/./b.png", "a/b.png"},
		{"windows absolute", `C:\Users\a\images\b.png`, "images/b.png"},
		{"windows without images", `D:\photos\cat.jpg`, "images/cat.jpg"},
		{"drive with forward slashes", "/C:/pics/cat.jpg", "images/cat.jpg"},
		{"backslash relative", `photos\cat.jpg`, "images/cat.jpg"},
		{"http", "http://x/y.png", "http://x/y.png"},
		{"https mixed case", "HTTPS://cdn/y.png", "HTTPS://cdn/y.png"},
		{"data uri", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"bare file", "foo.png", "images/foo.png"},
		{"bare images folder", "images", ""},
		{"images folder with slash", "images/", ""},
		{"uppercase images", "assets/IMAGES/shoes/red.png", "images/shoes/red.png"},
		{"leading slash single", "/foo.png", "images/foo.png"},
		{"leading slashes multi", "//static/foo.png", "static/foo.png"},
		{"multi segment", "static/foo.png", "static/foo.png"},
		{"trimmed", "  foo.png  ", "images/foo.png"},
		{"trailing blank segment", "cat.png /", "images/cat.png"},
		{"blank segment inside", "a/ /b.png", "a/b.png"},
		{"padded segments", "shop / images / red.png", "images/red.png"},
		{"only slashes", "///", ""},
		{"slashes and blank", "// /", ""},
		{"only backslash", `\`, ""},
		{"parent dirs kept", "../up.png", "../up.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

// idempotencyAlphabet holds the fragments that drive the normalizer's
// branches: separators, dots, the images folder, drive letters, blanks.
var idempotencyAlphabet = []string{"/", ".", "x", `\`, "images", "C:", " "}

func checkIdempotent(t *testing.T, in string) {
	t.Helper()
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize(%q) = %q, but Normalize(%q) = %q", in, once, once, twice)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "./images/foo.png", "././x.png", "./a/./b.png", `C:\x\y.png`, `C:`,
		"http://x/y.png", "foo.png", "images", "/a", "/a/b", "a//b", "a/b/images",
		`images\sub\z.png`, "IMAGES/Z.PNG", "data:abc", "./", "../up.png", "../../a/b.png",
		"/./x", "//./a/b", "cat.png /", "// /", "/./C:", "/x /", ". /x", "./ C:/x",
		"/data:a/b", "/http://x/y",
	}
	for _, in := range inputs {
		checkIdempotent(t, in)
	}
}

// TestNormalize_IdempotentExhaustive checks every concatenation of up to four
// alphabet fragments.
func TestNormalize_IdempotentExhaustive(t *testing.T) {
	var walk func(prefix string, depth int)
	walk = func(prefix string, depth int) {
		checkIdempotent(t, prefix)
		if depth == 0 {
			return
		}
		for _, frag := range idempotencyAlphabet {
			walk(prefix+frag, depth-1)
		}
	}
	walk("", 4)
}

func FuzzNormalize(f *testing.F) {
	for _, frag := range idempotencyAlphabet {
		f.Add(frag)
	}
	f.Add("/./x")
	f.Add("cat.png /")
	f.Add(`C:\Users\a\images\b.png`)
	f.Add("https://cdn/y.png")

	f.Fuzz(func(t *testing.T, in string) {
		checkIdempotent(t, in)
	})
}
