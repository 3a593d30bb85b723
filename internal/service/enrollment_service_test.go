package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- in-memory fakes ---

type fakeEnrollmentRepo struct {
	enrollments map[primitive.ObjectID]*domain.Enrollment
	casCalls    int
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[primitive.ObjectID]*domain.Enrollment{}}
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) (primitive.ObjectID, error) {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	cp := *e
	r.enrollments[e.ID] = &cp
	return e.ID, nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) GetByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, e := range r.enrollments {
		if e.MentorID == mentorID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	for _, e := range r.enrollments {
		if e.ClientID == clientID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, e *domain.Enrollment) error {
	if _, ok := r.enrollments[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	r.enrollments[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, from, to domain.EnrollmentStatus) error {
	r.casCalls++
	e, ok := r.enrollments[id]
	if !ok || e.Status != from {
		return repository.ErrUpdateFailed
	}
	e.Status = to
	return nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) add(u *domain.User) primitive.ObjectID {
	if u.ID == primitive.NilObjectID {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u.ID
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, errors.New("duplicate email")
		}
	}
	return r.add(u), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) AddClientIDToMentor(ctx context.Context, mentorID, clientID primitive.ObjectID) error {
	m, ok := r.users[mentorID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range m.ClientIDs {
		if id == clientID {
			return nil
		}
	}
	m.ClientIDs = append(m.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.User, error) {
	m, ok := r.users[mentorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var out []domain.User
	for _, id := range m.ClientIDs {
		if c, ok := r.users[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetMentorForClient(ctx context.Context, clientID, mentorID primitive.ObjectID) error {
	c, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.MentorID = &mentorID
	return nil
}

// --- helpers ---

func newTestEnrollmentService(t *testing.T, now time.Time) (*enrollmentService, *fakeEnrollmentRepo, *fakeUserRepo) {
	t.Helper()
	enrollRepo := newFakeEnrollmentRepo()
	userRepo := newFakeUserRepo()
	svc := NewEnrollmentService(enrollRepo, userRepo).(*enrollmentService)
	svc.now = func() time.Time { return now }
	return svc, enrollRepo, userRepo
}

// --- tests ---

func TestAcceptEnrollmentActivatesAndLinks(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, enrollRepo, userRepo := newTestEnrollmentService(t, now)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, err := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageMonthly})
	if err != nil {
		t.Fatalf("RequestEnrollment: %v", err)
	}
	if created.Status != domain.EnrollmentPending {
		t.Fatalf("new enrollment status = %q, want pending", created.Status)
	}

	accepted, err := svc.AcceptEnrollment(context.Background(), mentorID, created.ID)
	if err != nil {
		t.Fatalf("AcceptEnrollment: %v", err)
	}
	if accepted.Status != domain.EnrollmentActive {
		t.Errorf("status = %q, want active", accepted.Status)
	}
	if accepted.AcceptedAt == nil || !accepted.AcceptedAt.Equal(now) {
		t.Errorf("acceptedAt = %v, want %v", accepted.AcceptedAt, now)
	}
	wantEnd := now.AddDate(0, 0, 30)
	if accepted.EndDate == nil || !accepted.EndDate.Equal(wantEnd) {
		t.Errorf("endDate = %v, want %v", accepted.EndDate, wantEnd)
	}

	mentor := userRepo.users[mentorID]
	if len(mentor.ClientIDs) != 1 || mentor.ClientIDs[0] != clientID {
		t.Errorf("mentor roster = %v, want [%s]", mentor.ClientIDs, clientID.Hex())
	}
	client := userRepo.users[clientID]
	if client.MentorID == nil || *client.MentorID != mentorID {
		t.Errorf("client mentor link not set")
	}

	stored := enrollRepo.enrollments[created.ID]
	if stored.Status != domain.EnrollmentActive {
		t.Errorf("stored status = %q, want active", stored.Status)
	}
}

func TestAcceptEnrollmentWrongMentor(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, userRepo := newTestEnrollmentService(t, now)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	otherID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "o@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, err := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageMonthly})
	if err != nil {
		t.Fatalf("RequestEnrollment: %v", err)
	}

	if _, err := svc.AcceptEnrollment(context.Background(), otherID, created.ID); !errors.Is(err, ErrEnrollmentAccessDenied) {
		t.Errorf("AcceptEnrollment by wrong mentor = %v, want ErrEnrollmentAccessDenied", err)
	}
}

func TestMarkPaidOnlyFromPending(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, enrollRepo, userRepo := newTestEnrollmentService(t, now)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageHourly, Rate: 60})

	if err := svc.MarkPaid(context.Background(), created.ID, "pay_123"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	stored := enrollRepo.enrollments[created.ID]
	if stored.Status != domain.EnrollmentPaidPending || stored.PaymentID != "pay_123" {
		t.Errorf("stored = (%q, %q), want (paid_pending, pay_123)", stored.Status, stored.PaymentID)
	}

	// A second payment event against a non-pending enrollment is refused.
	if err := svc.MarkPaid(context.Background(), created.ID, "pay_456"); !errors.Is(err, ErrEnrollmentNotDecidable) {
		t.Errorf("second MarkPaid = %v, want ErrEnrollmentNotDecidable", err)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _, userRepo := newTestEnrollmentService(t, now)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageMonthly})
	if err := svc.RejectEnrollment(context.Background(), mentorID, created.ID); err != nil {
		t.Fatalf("RejectEnrollment: %v", err)
	}

	if _, err := svc.AcceptEnrollment(context.Background(), mentorID, created.ID); !errors.Is(err, ErrEnrollmentNotDecidable) {
		t.Errorf("Accept after reject = %v, want ErrEnrollmentNotDecidable", err)
	}

	got, err := svc.GetEnrollment(context.Background(), clientID, created.ID)
	if err != nil {
		t.Fatalf("GetEnrollment: %v", err)
	}
	if got.Status != domain.EnrollmentRejected {
		t.Errorf("status after reject = %q, want rejected", got.Status)
	}
}

// staleReadEnrollmentRepo serves reads from a snapshot taken before a
// concurrent writer moved the stored status on, so the conditional status
// write always loses.
type staleReadEnrollmentRepo struct {
	*fakeEnrollmentRepo
	stale domain.Enrollment
}

func (r *staleReadEnrollmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enrollment, error) {
	if id == r.stale.ID {
		cp := r.stale
		return &cp, nil
	}
	return r.fakeEnrollmentRepo.GetByID(ctx, id)
}

func TestLostStatusWriteRaceIsSilent(t *testing.T) {
	acceptTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, enrollRepo, userRepo := newTestEnrollmentService(t, acceptTime)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageHourly, Rate: 90})
	if _, err := svc.AcceptEnrollment(context.Background(), mentorID, created.ID); err != nil {
		t.Fatalf("AcceptEnrollment: %v", err)
	}

	// Another reader already persisted the rollover, but this reader's
	// snapshot still says active.
	stale := *enrollRepo.enrollments[created.ID]
	enrollRepo.enrollments[created.ID].Status = domain.EnrollmentCompleted
	svc.enrollmentRepo = &staleReadEnrollmentRepo{fakeEnrollmentRepo: enrollRepo, stale: stale}

	svc.now = func() time.Time { return acceptTime.Add(91 * time.Minute) }
	got, err := svc.GetEnrollment(context.Background(), clientID, created.ID)
	if err != nil {
		t.Fatalf("GetEnrollment after lost race: %v", err)
	}
	if got.Status != domain.EnrollmentCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if stored := enrollRepo.enrollments[created.ID]; stored.Status != domain.EnrollmentCompleted {
		t.Errorf("stored status = %q, want completed", stored.Status)
	}
}

func TestReadRefreshPersistsCompletion(t *testing.T) {
	acceptTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, enrollRepo, userRepo := newTestEnrollmentService(t, acceptTime)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	created, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageHourly, Rate: 90})
	if _, err := svc.AcceptEnrollment(context.Background(), mentorID, created.ID); err != nil {
		t.Fatalf("AcceptEnrollment: %v", err)
	}

	// Within the 90-minute window the enrollment stays active and no
	// status write happens.
	svc.now = func() time.Time { return acceptTime.Add(89 * time.Minute) }
	got, err := svc.GetEnrollment(context.Background(), clientID, created.ID)
	if err != nil {
		t.Fatalf("GetEnrollment: %v", err)
	}
	if got.Status != domain.EnrollmentActive {
		t.Errorf("status at T+89m = %q, want active", got.Status)
	}
	if enrollRepo.casCalls != 0 {
		t.Errorf("casCalls = %d before expiry, want 0", enrollRepo.casCalls)
	}

	// Past the window the read derives completed and persists it.
	svc.now = func() time.Time { return acceptTime.Add(91 * time.Minute) }
	got, err = svc.GetEnrollment(context.Background(), clientID, created.ID)
	if err != nil {
		t.Fatalf("GetEnrollment: %v", err)
	}
	if got.Status != domain.EnrollmentCompleted {
		t.Errorf("status at T+91m = %q, want completed", got.Status)
	}
	if enrollRepo.casCalls != 1 {
		t.Errorf("casCalls = %d after expiry, want 1", enrollRepo.casCalls)
	}
	if stored := enrollRepo.enrollments[created.ID]; stored.Status != domain.EnrollmentCompleted {
		t.Errorf("stored status = %q, want completed", stored.Status)
	}
}

func TestListRefreshesEachEnrollment(t *testing.T) {
	acceptTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, enrollRepo, userRepo := newTestEnrollmentService(t, acceptTime)

	mentorID := userRepo.add(&domain.User{Role: domain.RoleMentor, Email: "m@x.com"})
	clientID := userRepo.add(&domain.User{Role: domain.RoleClient, Email: "c@x.com"})

	expired, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageHourly, Rate: 30})
	if _, err := svc.AcceptEnrollment(context.Background(), mentorID, expired.ID); err != nil {
		t.Fatalf("AcceptEnrollment: %v", err)
	}
	pending, _ := svc.RequestEnrollment(context.Background(), clientID, mentorID, domain.Package{Type: domain.PackageYearly})

	svc.now = func() time.Time { return acceptTime.Add(2 * time.Hour) }
	list, err := svc.GetEnrollmentsForMentor(context.Background(), mentorID)
	if err != nil {
		t.Fatalf("GetEnrollmentsForMentor: %v", err)
	}
	statuses := map[primitive.ObjectID]domain.EnrollmentStatus{}
	for _, e := range list {
		statuses[e.ID] = e.Status
	}
	if statuses[expired.ID] != domain.EnrollmentCompleted {
		t.Errorf("expired enrollment status = %q, want completed", statuses[expired.ID])
	}
	if statuses[pending.ID] != domain.EnrollmentPending {
		t.Errorf("pending enrollment status = %q, want pending", statuses[pending.ID])
	}
	if stored := enrollRepo.enrollments[expired.ID]; stored.Status != domain.EnrollmentCompleted {
		t.Errorf("stored expired status = %q, want completed", stored.Status)
	}
}
