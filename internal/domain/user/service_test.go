package user_test

import (
	"errors"
	"testing"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/auth"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/testutil"
)

func newService(t *testing.T) *user.Service {
	t.Helper()
	db := testutil.NewDB(t, &user.User{})
	return user.NewService(db, testutil.Config())
}

func register(t *testing.T, svc *user.Service, email, name string) *user.User {
	t.Helper()
	u, err := svc.Register(&user.RegisterRequest{Email: email, Password: "secret1", Name: name})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestRegister_FirstUserIsOwner(t *testing.T) {
	svc := newService(t)

	owner := register(t, svc, "Owner@Shop.test", "Owner")
	if owner.Role != auth.RoleOwner {
		t.Fatalf("expected first user to be OWNER, got %s", owner.Role)
	}
	if owner.Email != "owner@shop.test" {
		t.Errorf("expected lower-cased email, got %q", owner.Email)
	}

	staff := register(t, svc, "clerk@shop.test", "Clerk")
	if staff.Role != auth.RoleStaff {
		t.Fatalf("expected later users to be STAFF, got %s", staff.Role)
	}

	_, err := svc.Register(&user.RegisterRequest{Email: "CLERK@shop.test", Password: "secret1", Name: "Again"})
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	svc := newService(t)
	register(t, svc, "owner@shop.test", "Owner")

	if _, err := svc.Login(&user.LoginRequest{Email: "owner@shop.test", Password: "wrong-pass"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(&user.LoginRequest{Email: "nobody@shop.test", Password: "secret1"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	resp, err := svc.Login(&user.LoginRequest{Email: "OWNER@shop.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.User.LastLoginAt == nil {
		t.Fatalf("incomplete auth response: %+v", resp)
	}

	claims, err := auth.NewJWTManager(testutil.Config()).ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.Role != auth.RoleOwner {
		t.Errorf("expected OWNER role claim, got %q", claims.Role)
	}

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.User.ID != resp.User.ID {
		t.Errorf("refresh returned another user")
	}

	if _, err := svc.RefreshToken(resp.AccessToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized when refreshing with an access token, got %v", err)
	}
}

func TestStaffManagement(t *testing.T) {
	svc := newService(t)
	owner := register(t, svc, "owner@shop.test", "Owner")

	staff, err := svc.CreateStaff(&user.CreateStaffRequest{Email: "a@shop.test", Password: "secret1", Name: "A"})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if _, err := svc.CreateStaff(&user.CreateStaffRequest{Email: "b@shop.test", Password: "secret1", Name: "B"}); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	list, err := svc.GetStaff()
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 staff (owner excluded), got %d", len(list))
	}

	name := "A renamed"
	taken := "b@shop.test"
	if _, err := svc.UpdateStaff(staff.ID, &user.UpdateStaffRequest{Email: &taken}); !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("expected conflict on email reuse, got %v", err)
	}
	password := "newpass"
	updated, err := svc.UpdateStaff(staff.ID, &user.UpdateStaffRequest{Name: &name, Password: &password})
	if err != nil {
		t.Fatalf("update staff: %v", err)
	}
	if updated.Name != name {
		t.Errorf("expected name %q, got %q", name, updated.Name)
	}
	if _, err := svc.Login(&user.LoginRequest{Email: "a@shop.test", Password: "newpass"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	if _, err := svc.UpdateStaff(owner.ID, &user.UpdateStaffRequest{Name: &name}); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("owner must not be editable as staff, got %v", err)
	}
	if err := svc.DeleteStaff(owner.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("owner must not be deletable as staff, got %v", err)
	}

	if err := svc.DeleteStaff(staff.ID); err != nil {
		t.Fatalf("delete staff: %v", err)
	}
	if err := svc.DeleteStaff(staff.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
