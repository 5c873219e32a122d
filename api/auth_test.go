package api

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	token, err := issueToken("secret")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if !verifyToken("secret", token) {
		t.Error("expected issued token to verify")
	}
	if verifyToken("other-secret", token) {
		t.Error("token must not verify under a different secret")
	}
	if verifyToken("secret", token+"x") {
		t.Error("tampered token must not verify")
	}
}

func TestTokenDefaultKey(t *testing.T) {
	token, err := issueToken("")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if !verifyToken("", token) {
		t.Error("expected token to verify with derived default key")
	}
}
