package version

import "testing"

func TestInfoString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Info
		want string
	}{
		{Info{Version: "v1.0.0"}, "v1.0.0"},
		{Info{Version: "v1.0.0", Commit: "0123456789abcdef"}, "v1.0.0 (0123456)"},
		{Info{Version: "dev", Commit: "abc"}, "dev (abc)"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	if got, want := UserAgent(), "oshirase/"+Get().Version; got != want {
		t.Fatalf("UserAgent() = %q, want %q", got, want)
	}
}
