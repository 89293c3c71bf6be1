package validate

import (
	"net/url"
	"testing"
)

func TestStringRequired(t *testing.T) {
	f := New(url.Values{"name": {"  Dishes  "}})
	if got := f.String("name", "name required"); got != "Dishes" {
		t.Errorf("String = %q, want %q", got, "Dishes")
	}
	if !f.Valid() {
		t.Errorf("expected valid form, errors: %v", f.Errors)
	}

	f = New(url.Values{})
	f.String("name", "name required")
	if f.Valid() {
		t.Error("expected invalid form for missing field")
	}
	if f.Errors["name"] != "name required" {
		t.Errorf("error = %q, want %q", f.Errors["name"], "name required")
	}
}

func TestFirstErrorWins(t *testing.T) {
	f := New(url.Values{"username": {"ab"}})
	v := f.String("username", "required")
	f.Length("username", v, 6, 64, "too short")
	f.Email("username", v, "not an email")

	if f.Errors["username"] != "too short" {
		t.Errorf("error = %q, want %q", f.Errors["username"], "too short")
	}
}

func TestLength(t *testing.T) {
	f := New(url.Values{"first_name": {"A"}})
	v := f.String("first_name", "required")
	f.Length("first_name", v, 2, 64, "too short")
	if f.Valid() {
		t.Error("expected length error")
	}

	f = New(url.Values{"first_name": {"Al"}})
	v = f.String("first_name", "required")
	f.Length("first_name", v, 2, 64, "too short")
	if !f.Valid() {
		t.Errorf("expected valid, errors: %v", f.Errors)
	}
}

func TestLengthCountsCharactersNotBytes(t *testing.T) {
	// "Zoë" is 3 characters but 4 bytes; both bounds use characters.
	f := New(url.Values{"first_name": {"Zoë"}})
	v := f.String("first_name", "required")
	f.Length("first_name", v, 3, 3, "out of bounds")
	if !f.Valid() {
		t.Errorf("expected valid, errors: %v", f.Errors)
	}

	f = New(url.Values{"first_name": {"ëë"}})
	v = f.String("first_name", "required")
	f.Length("first_name", v, 3, 64, "too short")
	if f.Valid() {
		t.Error("expected length error for 2-character value")
	}
}

func TestLengthSkipsEmpty(t *testing.T) {
	f := New(url.Values{})
	v := f.String("name", "required")
	f.Length("name", v, 2, 64, "too short")
	if f.Errors["name"] != "required" {
		t.Errorf("error = %q, want required message first", f.Errors["name"])
	}
}

func TestEmail(t *testing.T) {
	f := New(url.Values{"username": {"not-an-email"}})
	v := f.String("username", "required")
	f.Email("username", v, "must be an email")
	if f.Errors["username"] != "must be an email" {
		t.Errorf("error = %q, want email message", f.Errors["username"])
	}

	f = New(url.Values{"username": {"alice@example.com"}})
	v = f.String("username", "required")
	f.Email("username", v, "must be an email")
	if !f.Valid() {
		t.Errorf("expected valid, errors: %v", f.Errors)
	}
}

func TestEqualTo(t *testing.T) {
	f := New(url.Values{"password": {"hunter2hunter2"}, "confirm_password": {"different"}})
	pw := f.String("password", "required")
	f.EqualTo("password", pw, f.Optional("confirm_password"), "passwords must match")
	if f.Errors["password"] != "passwords must match" {
		t.Errorf("error = %q, want match message", f.Errors["password"])
	}
}

func TestInt(t *testing.T) {
	f := New(url.Values{"value": {"10"}})
	if got := f.Int("value", 1, 9999, "bad value"); got != 10 {
		t.Errorf("Int = %d, want 10", got)
	}
	if !f.Valid() {
		t.Errorf("expected valid, errors: %v", f.Errors)
	}

	for _, raw := range []string{"", "abc", "0", "10000"} {
		f = New(url.Values{"value": {raw}})
		f.Int("value", 1, 9999, "bad value")
		if f.Valid() {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestIntNegativeRange(t *testing.T) {
	f := New(url.Values{"points": {"-50"}})
	if got := f.Int("points", -9999, 9999, "bad points"); got != -50 {
		t.Errorf("Int = %d, want -50", got)
	}
	if !f.Valid() {
		t.Errorf("expected valid, errors: %v", f.Errors)
	}
}

func TestID(t *testing.T) {
	f := New(url.Values{"chore_id": {"42"}})
	if got := f.ID("chore_id", "bad id"); got != 42 {
		t.Errorf("ID = %d, want 42", got)
	}

	for _, raw := range []string{"", "0", "-1", "x"} {
		f = New(url.Values{"chore_id": {raw}})
		f.ID("chore_id", "bad id")
		if f.Valid() {
			t.Errorf("expected error for %q", raw)
		}
	}
}
