package application

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
	mailtpl "github.com/oksasatya/blogx-api/pkg/mailer/templates"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.accounts.Register(ctx, RegisterInput{Username: " alice ", Email: " Alice@Blog.test ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	a := res.Account
	if a.Username != "alice" || a.Email != "alice@blog.test" || a.Role != "member" {
		t.Fatalf("unexpected account %+v", a)
	}
	if a.PasswordHash == "" || a.PasswordHash == "secret123" {
		t.Fatalf("password was not hashed")
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatalf("missing tokens")
	}
	if got := f.notifier.templates(); !slices.Equal(got, []string{mailtpl.Welcome}) {
		t.Fatalf("notifications = %v", got)
	}

	_, err = f.accounts.Register(ctx, RegisterInput{Username: "other", Email: "ALICE@blog.test", Password: "secret123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	list, _ := f.store.Accounts().List(ctx)
	if len(list) != 1 {
		t.Fatalf("duplicate registration created an account: %d", len(list))
	}

	if _, err := f.accounts.Register(ctx, RegisterInput{Username: "x", Email: "x@blog.test"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestRegisterSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errBoom
	if _, err := f.accounts.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.c", Password: "secret123"}); err != nil {
		t.Fatalf("publish failure must not fail registration: %v", err)
	}
}

func TestSignInFailsWhenSessionCannotBeSaved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "dana")

	f.sessions.mu.Lock()
	f.sessions.saveErr = errBoom
	f.sessions.mu.Unlock()

	if _, err := f.accounts.Login(ctx, "dana@blog.test", "secret123"); !errors.Is(err, errBoom) {
		t.Fatalf("login: got %v", err)
	}
	if _, err := f.accounts.Register(ctx, RegisterInput{Username: "eve", Email: "eve@blog.test", Password: "secret123"}); !errors.Is(err, errBoom) {
		t.Fatalf("register: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")

	if _, err := f.accounts.Login(ctx, "BOB@blog.test", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.accounts.Login(ctx, "bob@blog.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := f.accounts.Login(ctx, "nobody@blog.test", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}

	admin := f.admin(t)
	if _, err := f.accounts.Block(ctx, admin.Principal(), bob.ID); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := f.accounts.Login(ctx, "bob@blog.test", "secret123"); !errors.Is(err, policy.ErrAccountBlocked) {
		t.Fatalf("blocked login: %v", err)
	}
	// A wrong password on a blocked account still reads as bad credentials.
	if _, err := f.accounts.Login(ctx, "bob@blog.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blocked wrong password: %v", err)
	}
}

func TestBlockAndUnblock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	carol := f.register(t, "carol")

	if _, err := f.accounts.Block(ctx, carol.Principal(), admin.ID); !errors.Is(err, policy.ErrAdminOnly) {
		t.Fatalf("member blocking: %v", err)
	}
	if _, err := f.accounts.Block(ctx, admin.Principal(), admin.ID); !errors.Is(err, policy.ErrCannotBlockAdmin) {
		t.Fatalf("blocking an admin: %v", err)
	}

	got, err := f.accounts.Block(ctx, admin.Principal(), carol.ID)
	if err != nil || !got.IsBlocked {
		t.Fatalf("block: %v %+v", err, got)
	}
	if _, ok := f.sessions.sids[carol.ID]; ok {
		t.Fatalf("blocking must end the session")
	}
	got, err = f.accounts.Unblock(ctx, admin.Principal(), carol.ID)
	if err != nil || got.IsBlocked {
		t.Fatalf("unblock: %v %+v", err, got)
	}
	want := []string{mailtpl.Welcome, mailtpl.AccountBlocked, mailtpl.AccountUnblocked}
	if got := f.notifier.templates(); !slices.Equal(got, want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}

	if _, err := f.accounts.Block(ctx, admin.Principal(), "not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("malformed id: %v", err)
	}
	if _, err := f.accounts.Block(ctx, admin.Principal(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("missing account: %v", err)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.accounts.Register(ctx, RegisterInput{Username: "dan", Email: "dan@blog.test", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rotated, err := f.accounts.Refresh(ctx, res.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	// The first session was replaced by the rotation.
	if _, err := f.accounts.Refresh(ctx, res.Tokens.RefreshToken); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("stale refresh: %v", err)
	}
	if _, err := f.accounts.Refresh(ctx, rotated.Tokens.AccessToken); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("access token used as refresh: %v", err)
	}

	if err := f.accounts.Logout(ctx, res.Account.Principal()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.accounts.Refresh(ctx, rotated.Tokens.RefreshToken); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("refresh after logout: %v", err)
	}
}

func TestPrincipalReloadsAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eve := f.register(t, "eve")

	if _, err := f.accounts.Principal(ctx, "garbage"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("malformed id: %v", err)
	}
	admin := f.admin(t)
	_, _ = f.accounts.Block(ctx, admin.Principal(), eve.ID)
	a, err := f.accounts.Principal(ctx, eve.ID)
	if err != nil || !a.IsBlocked {
		t.Fatalf("principal must reflect stored block status: %v %+v", err, a)
	}
	if err := f.accounts.DeleteAccount(ctx, admin.Principal(), eve.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.accounts.Principal(ctx, eve.ID); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("deleted account: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fay := f.register(t, "fay")

	got, err := f.accounts.UpdateProfile(ctx, fay.Principal(), UpdateProfileInput{Username: "  fay2 "})
	if err != nil || got.Username != "fay2" {
		t.Fatalf("update: %v %+v", err, got)
	}
	got, _ = f.accounts.UpdateProfile(ctx, fay.Principal(), UpdateProfileInput{})
	if got.Username != "fay2" {
		t.Fatalf("empty fields must keep values, got %q", got.Username)
	}
}

func TestFederatedAuth(t *testing.T) {
	ctx := context.Background()
	identity := &FederatedIdentity{Subject: "g-1", Email: "Gina@Gmail.test", Name: "Gina Lee", AvatarURL: "https://img.test/g.png"}

	t.Run("no provider", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.accounts.FederatedAuth(ctx, "tok", FederatedAuto); !errors.Is(err, ErrIdentityProvider) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("verification failure", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{err: errBoom}
		if _, err := f.accounts.FederatedAuth(ctx, "tok", FederatedAuto); !errors.Is(err, ErrIdentityProvider) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("login without account", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{id: identity}
		if _, err := f.accounts.FederatedAuth(ctx, "tok", FederatedLogin); !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("register then login", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{id: identity}
		res, err := f.accounts.FederatedAuth(ctx, "tok", FederatedRegister)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		a := res.Account
		if a.Email != "gina@gmail.test" || a.GoogleID != "g-1" || a.HasPassword() {
			t.Fatalf("unexpected account %+v", a)
		}
		if !regexp.MustCompile(`^ginalee\d{4}$`).MatchString(a.Username) {
			t.Fatalf("derived username %q", a.Username)
		}
		if _, err := f.accounts.FederatedAuth(ctx, "tok", FederatedRegister); !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("second register: %v", err)
		}
		again, err := f.accounts.FederatedAuth(ctx, "tok", FederatedLogin)
		if err != nil || again.Account.ID != a.ID {
			t.Fatalf("login: %v", err)
		}
	})

	t.Run("links a password account", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{id: identity}
		local, err := f.accounts.Register(ctx, RegisterInput{Username: "gina", Email: "gina@gmail.test", Password: "secret123"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		res, err := f.accounts.FederatedAuth(ctx, "tok", FederatedAuto)
		if err != nil {
			t.Fatalf("auto: %v", err)
		}
		if res.Account.ID != local.Account.ID || res.Account.GoogleID != "g-1" || res.Account.AvatarURL == "" {
			t.Fatalf("identity not linked: %+v", res.Account)
		}
		if _, err := f.accounts.Login(ctx, "gina@gmail.test", "secret123"); err != nil {
			t.Fatalf("password login still works: %v", err)
		}
	})

	t.Run("keeps an existing link to another subject", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{id: identity}
		linked := &entity.Account{Username: "gina", Email: "gina@gmail.test", Role: entity.RoleMember, GoogleID: "g-old"}
		if err := f.store.Accounts().Create(ctx, linked); err != nil {
			t.Fatalf("create: %v", err)
		}
		res, err := f.accounts.FederatedAuth(ctx, "tok", FederatedLogin)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if res.Account.GoogleID != "g-old" || res.Account.AvatarURL != "https://img.test/g.png" {
			t.Fatalf("link overwritten or avatar missing: %+v", res.Account)
		}
		stored, _ := f.store.Accounts().GetByID(ctx, linked.ID)
		if stored.GoogleID != "g-old" {
			t.Fatalf("stored google id %q", stored.GoogleID)
		}
	})

	t.Run("blocked account", func(t *testing.T) {
		f := newFixture(t)
		f.accounts.Identity = fakeIdentity{id: identity}
		res, _ := f.accounts.FederatedAuth(ctx, "tok", FederatedAuto)
		_, _ = f.accounts.Block(ctx, f.admin(t).Principal(), res.Account.ID)
		if _, err := f.accounts.FederatedAuth(ctx, "tok", FederatedAuto); !errors.Is(err, policy.ErrAccountBlocked) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestDerivedUsername(t *testing.T) {
	now := time.UnixMilli(1_700_000_001_234)
	if got := derivedUsername("Ada  Love Lace", "ada@x.io", now); got != "adalovelace1234" {
		t.Fatalf("got %q", got)
	}
	if got := derivedUsername("", "ada@x.io", now); got != "ada1234" {
		t.Fatalf("got %q", got)
	}
}
