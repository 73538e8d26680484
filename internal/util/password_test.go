package util

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("ValidatePassword(6 chars) = %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("ValidatePassword(5 chars) succeeded")
	}
	if err := ValidatePassword(strings.Repeat("a", 65)); err == nil {
		t.Error("ValidatePassword(65 chars) succeeded")
	}
}

func TestDeriveAndVerifyPassword(t *testing.T) {
	hash, salt, err := DerivePassword("correct horse")
	if err != nil {
		t.Fatalf("DerivePassword: %v", err)
	}
	if bytes.Contains(hash, []byte("correct horse")) {
		t.Error("hash contains the plaintext password")
	}
	if !VerifyPassword("correct horse", salt, hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong horse", salt, hash) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("correct horse", nil, hash) {
		t.Error("empty salt accepted")
	}
	if VerifyPassword("", salt, hash) {
		t.Error("empty password accepted")
	}
}

func TestDerivePasswordUsesFreshSalt(t *testing.T) {
	hash1, salt1, err := DerivePassword("samepassword")
	if err != nil {
		t.Fatalf("DerivePassword: %v", err)
	}
	hash2, salt2, err := DerivePassword("samepassword")
	if err != nil {
		t.Fatalf("DerivePassword: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Error("two derivations produced the same salt")
	}
	if bytes.Equal(hash1, hash2) {
		t.Error("two derivations produced the same hash")
	}
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatalf("GenerateResetCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("code %q out of range", code)
		}
	}
}

func TestHashResetCode(t *testing.T) {
	stored := HashResetCode("123456")
	if stored == "123456" {
		t.Fatal("stored digest equals the code")
	}
	if stored != HashResetCode("123456") {
		t.Error("digest is not deterministic")
	}
	if stored == HashResetCode("654321") {
		t.Error("different codes share a digest")
	}
}
