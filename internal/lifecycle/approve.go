package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

const (
	stepLoadBooking   = "load booking"
	stepResolveName   = "resolve requester"
	stepInsertMember  = "insert member"
	stepPromoteUser   = "promote user"
	stepApproveStatus = "set status approved"
)

type ApprovalSummary struct {
	BookingID string `json:"bookingId"`
	MemberID  string `json:"memberId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	// MemberReused is set when the requester already had a live member record.
	MemberReused bool   `json:"memberReused"`
	RolePromoted bool   `json:"rolePromoted"`
	Message      string `json:"message"`
}

// ApproveBooking moves a pending booking to approved and promotes its
// requester to member. The member insert and the role promotion are both
// attempted before the status changes, so an approved booking never exists
// without its promotion having been tried.
func (m *Manager) ApproveBooking(ctx context.Context, id string) (ApprovalSummary, error) {
	r, ctx := m.begin(ctx, "approve", id)
	defer r.end()

	if id == "" {
		return ApprovalSummary{}, r.fail(stepLoadBooking, domain.ErrMissingBookingID)
	}
	b, err := m.ledger.GetBooking(ctx, id)
	if err != nil {
		return ApprovalSummary{}, r.fail(stepLoadBooking, err)
	}
	if b.UserEmail == "" {
		return ApprovalSummary{}, r.fail(stepLoadBooking, domain.ErrMissingEmail)
	}
	if !b.Status.CanAdvanceTo(domain.BookingStatusApproved) {
		return ApprovalSummary{}, r.fail(stepLoadBooking,
			fmt.Errorf("%w (status %s)", domain.ErrBookingNotPending, b.Status))
	}

	sum := ApprovalSummary{BookingID: id, Email: b.UserEmail, Name: domain.UnnamedMember}
	u, err := m.directory.GetUser(ctx, b.UserEmail)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
	case err != nil:
		return ApprovalSummary{}, r.fail(stepResolveName, err)
	case u.Name != "":
		sum.Name = u.Name
	}

	sum.MemberID, err = m.directory.InsertMember(ctx, domain.Member{
		Email:    b.UserEmail,
		Name:     sum.Name,
		JoinedAt: m.now(),
	})
	if errors.Is(err, domain.ErrMemberExists) {
		sum.MemberReused = true
	} else if err != nil {
		return ApprovalSummary{}, r.fail(stepInsertMember, err)
	}
	r.done(stepInsertMember)

	// Admins keep their role; everyone else becomes a member.
	if u.Role != domain.RoleAdmin {
		res, err := m.directory.SetUserRole(ctx, b.UserEmail, domain.RoleMember)
		if err != nil {
			return ApprovalSummary{}, r.fail(stepPromoteUser, err)
		}
		sum.RolePromoted = res.Modified > 0
		if res.Matched == 0 {
			m.log.WarnContext(ctx, "approved requester has no user record",
				slog.String("booking_id", id),
				slog.String("email", b.UserEmail),
			)
		}
	}
	r.done(stepPromoteUser)

	res, err := m.ledger.UpdateBooking(ctx, id, store.StatusPatch(domain.BookingStatusApproved))
	if err != nil {
		return ApprovalSummary{}, r.fail(stepApproveStatus, err)
	}
	if res.Matched == 0 {
		// deleted between load and update
		return ApprovalSummary{}, r.fail(stepApproveStatus, domain.ErrBookingNotFound)
	}
	if res.Modified == 0 {
		// advanced by another transition between load and update
		return sum, r.fail(stepApproveStatus,
			fmt.Errorf("%w (changed concurrently)", domain.ErrBookingNotPending))
	}
	r.done(stepApproveStatus)

	sum.Message = fmt.Sprintf("booking approved, %s is now a member", sum.Name)
	m.log.InfoContext(ctx, "booking approved",
		slog.String("booking_id", id),
		slog.String("member_id", sum.MemberID),
		slog.String("email", sum.Email),
		slog.Bool("member_reused", sum.MemberReused),
	)
	return sum, nil
}
