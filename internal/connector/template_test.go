package connector

import "testing"

func TestRenderRedirect(t *testing.T) {
	input := []byte("client=#@CLIENT_GUID@# player=#@SCORM_PLAYER_URL@# again=#@CLIENT_GUID@# keep=#@OTHER@#")
	got := string(renderRedirect(input, "cust-123", "http://player.test/scorm"))
	want := "client=cust-123 player=http://player.test/scorm again=cust-123 keep=#@OTHER@#"
	if got != want {
		t.Fatalf("renderRedirect = %q, want %q", got, want)
	}
}

func TestRenderRedirectNoPlaceholders(t *testing.T) {
	input := []byte("<html>static</html>")
	if got := string(renderRedirect(input, "cust", "url")); got != "<html>static</html>" {
		t.Fatalf("content without placeholders changed: %q", got)
	}
}
