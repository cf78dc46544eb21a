package services

import (
	"testing"

	"carteira/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected a user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if user.Password == "password123" {
			t.Error("expected the password to be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "Dup")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "Dup")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "Name")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("test@example.com", "password123", "   ")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("short_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("test@example.com", "12345", "Name")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		user, err := svc.CreateUser("  Alice@EXAMPLE.COM ", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithEmail(t, db, "found@example.com")
		user, err := svc.GetUserByEmail("Found@Example.com")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.GetUserByEmail("nonexistent@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Email != created.Email {
			t.Errorf("expected email %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.GetUserByID("0190a5b8-7d3e-7c4a-8f00-0000000000ff")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	if !svc.VerifyPassword(user, testutil.TestPassword) {
		t.Error("expected password verification to succeed")
	}
	if svc.VerifyPassword(user, "wrongpassword") {
		t.Error("expected password verification to fail")
	}
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_records_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		user, err := svc.AttemptLogin("login@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "fail@example.com")

		_, err := svc.AttemptLogin("fail@example.com", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("name_and_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name, email := "Maria", "Maria@Example.com"
		updated, err := svc.UpdateProfile(user.ID, &name, &email)
		testutil.AssertNoError(t, err)

		if updated.Name != "Maria" || updated.Email != "maria@example.com" {
			t.Errorf("unexpected profile %s <%s>", updated.Name, updated.Email)
		}
	})

	t.Run("email_taken", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "taken@example.com")
		user := testutil.CreateTestUser(t, db)

		email := "taken@example.com"
		_, err := svc.UpdateProfile(user.ID, nil, &email)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("same_email_is_not_a_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		email := user.Email
		_, err := svc.UpdateProfile(user.ID, nil, &email)
		testutil.AssertNoError(t, err)
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name := ""
		_, err := svc.UpdateProfile(user.ID, &name, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))
	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected stored hash, got %q", hash)
	}

	testutil.AssertNoError(t, svc.ClearRefreshToken(user.ID))
	hash, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "" {
		t.Errorf("expected cleared hash, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("0190a5b8-7d3e-7c4a-8f00-0000000000ff", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
