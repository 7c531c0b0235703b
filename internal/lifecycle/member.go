package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

const (
	stepDeleteMember = "delete member"
	stepDemoteUser   = "demote user"
)

type RemovalSummary struct {
	MemberID    string `json:"memberId"`
	Email       string `json:"email"`
	RoleUpdated bool   `json:"roleUpdated"`
	Message     string `json:"message"`
}

// RemoveMember deletes a member record and downgrades the matching user from
// member back to user. Admins and users without a record keep their state,
// and a missing member leaves the users untouched.
func (m *Manager) RemoveMember(ctx context.Context, id string) (RemovalSummary, error) {
	r, ctx := m.begin(ctx, "remove_member", "")
	defer r.end()

	if id == "" {
		return RemovalSummary{}, r.fail(stepDeleteMember, domain.Validationf("member id is required"))
	}
	removed, err := m.directory.DeleteMember(ctx, id)
	if err != nil {
		return RemovalSummary{}, r.fail(stepDeleteMember, err)
	}
	r.done(stepDeleteMember)
	sum := RemovalSummary{MemberID: id, Email: removed.Email}

	u, err := m.directory.GetUser(ctx, removed.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		sum.Message = "member removed, no matching user"
	case err != nil:
		return sum, r.fail(stepDemoteUser, err)
	case u.Role != domain.RoleMember:
		sum.Message = fmt.Sprintf("member removed, user role %s left unchanged", u.Role)
	default:
		res, err := m.directory.SetUserRole(ctx, removed.Email, domain.RoleUser)
		if err != nil {
			return sum, r.fail(stepDemoteUser, err)
		}
		sum.RoleUpdated = res.Modified > 0
		sum.Message = "member removed and user role set to user"
	}
	r.done(stepDemoteUser)

	m.log.InfoContext(ctx, "member removed",
		slog.String("member_id", id),
		slog.String("email", removed.Email),
		slog.Bool("role_updated", sum.RoleUpdated),
	)
	return sum, nil
}

func (m *Manager) ListMembers(ctx context.Context) ([]domain.Member, error) {
	out, err := m.directory.ListMembers(ctx)
	if err != nil {
		return nil, &StepError{Transition: "list_members", Step: "query", Err: err}
	}
	return out, nil
}

// RegisterUser records the caller in the directory. New users start with the
// user role; re-registering refreshes the profile and keeps the role.
func (m *Manager) RegisterUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingEmail
	}
	existing, err := m.directory.GetUser(ctx, u.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		u.Role = domain.RoleUser
		u.CreatedAt = m.now()
	case err != nil:
		return domain.User{}, &StepError{Transition: "register_user", Step: "lookup", Err: err}
	default:
		u.Role = existing.Role
		u.CreatedAt = existing.CreatedAt
	}
	if err := m.directory.UpsertUser(ctx, u); err != nil {
		return domain.User{}, &StepError{Transition: "register_user", Step: "upsert", Err: err}
	}
	return u, nil
}

// UserRole resolves the role used for authorization.
func (m *Manager) UserRole(ctx context.Context, email string) (domain.Role, error) {
	u, err := m.directory.GetUser(ctx, email)
	if err != nil {
		if isKind(err) {
			return "", err
		}
		return "", &StepError{Transition: "user_role", Step: "lookup", Err: err}
	}
	return u.Role, nil
}

func (m *Manager) ListUsers(ctx context.Context) ([]domain.User, error) {
	out, err := m.directory.ListUsers(ctx)
	if err != nil {
		return nil, &StepError{Transition: "list_users", Step: "query", Err: err}
	}
	return out, nil
}

// SetUserRole is the administrative role override. It does not create or
// remove member records.
func (m *Manager) SetUserRole(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}
	res, err := m.directory.SetUserRole(ctx, email, role)
	if err != nil {
		return domain.User{}, &StepError{Transition: "set_user_role", Step: "update", Err: err}
	}
	if res.Matched == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	m.log.InfoContext(ctx, "user role set", slog.String("email", email), slog.String("role", string(role)))
	u, err := m.directory.GetUser(ctx, email)
	if err != nil {
		return domain.User{}, &StepError{Transition: "set_user_role", Step: "reload", Err: err}
	}
	return u, nil
}
