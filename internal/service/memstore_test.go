package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"referral_rewards/internal/domain"
	"referral_rewards/internal/repository"

	"github.com/shopspring/decimal"
)

// memState is an in-memory copy of the schema used by the service tests.
type memState struct {
	users      map[int64]*domain.User
	nextUserID int64
	referrals  []domain.Referral
	deposits   []domain.Deposit
	rewards    []domain.Reward
	levels     []domain.RewardLevel
	audits     []domain.AuditLog
	clock      time.Time
}

func newMemState() *memState {
	return &memState{
		users: map[int64]*domain.User{},
		levels: []domain.RewardLevel{
			{Level: 1, Percentage: decimal.NewFromInt(10)},
			{Level: 2, Percentage: decimal.NewFromInt(5)},
			{Level: 3, Percentage: decimal.NewFromInt(2)},
		},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		users:      make(map[int64]*domain.User, len(s.users)),
		nextUserID: s.nextUserID,
		referrals:  append([]domain.Referral(nil), s.referrals...),
		deposits:   append([]domain.Deposit(nil), s.deposits...),
		rewards:    append([]domain.Reward(nil), s.rewards...),
		levels:     append([]domain.RewardLevel(nil), s.levels...),
		audits:     append([]domain.AuditLog(nil), s.audits...),
		clock:      s.clock,
	}
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	return c
}

func (s *memState) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// memStore serializes transactions with a mutex and discards the working copy
// when fn fails, which is all the isolation the service relies on.
type memStore struct {
	mu       sync.Mutex
	state    *memState
	failOn   map[string]error
	failOnce map[string]error
	codes    []string
}

func newMemStore() *memStore {
	return &memStore{state: newMemState(), failOn: map[string]error{}, failOnce: map[string]error{}}
}

func (m *memStore) WithTx(ctx context.Context, fn func(q repository.Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memQuerier{s: work, store: m}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) Reader() repository.Querier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memQuerier{s: m.state.clone(), store: m}
}

// snapshot returns a copy of committed state for assertions
func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// mutate edits committed state directly, bypassing the service
func (m *memStore) mutate(fn func(s *memState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

type memQuerier struct {
	s     *memState
	store *memStore
}

var _ repository.Querier = (*memQuerier)(nil)

func (q *memQuerier) fail(op string) error {
	if err, ok := q.store.failOnce[op]; ok {
		delete(q.store.failOnce, op)
		return err
	}
	return q.store.failOn[op]
}

func (q *memQuerier) findByEmail(email string) *domain.User {
	for _, u := range q.s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (q *memQuerier) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := q.fail("GetUserByEmail"); err != nil {
		return nil, err
	}
	u := q.findByEmail(email)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (q *memQuerier) LockUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return q.GetUserByEmail(ctx, email)
}

func (q *memQuerier) EmailExists(ctx context.Context, email string) (bool, error) {
	return q.findByEmail(email) != nil, nil
}

func (q *memQuerier) GetUserIDByReferralCode(ctx context.Context, code string) (int64, error) {
	for _, u := range q.s.users {
		if u.ReferralCode == code {
			return u.ID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (q *memQuerier) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	q.store.codes = append(q.store.codes, code)
	_, err := q.GetUserIDByReferralCode(ctx, code)
	return err == nil, nil
}

func (q *memQuerier) CreateUser(ctx context.Context, u *domain.User) error {
	if err := q.fail("CreateUser"); err != nil {
		return err
	}
	if q.findByEmail(u.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	if _, err := q.GetUserIDByReferralCode(ctx, u.ReferralCode); err == nil {
		return repository.ErrDuplicateReferralCode
	}
	q.s.nextUserID++
	u.ID = q.s.nextUserID
	u.TotalDeposits = decimal.Zero
	u.TotalEarnings = decimal.Zero
	u.CreatedAt = q.s.tick()
	cp := *u
	q.s.users[u.ID] = &cp
	return nil
}

func (q *memQuerier) GetParentID(ctx context.Context, userID int64) (*int64, bool, error) {
	u, ok := q.s.users[userID]
	if !ok {
		return nil, false, nil
	}
	return u.ReferredBy, true, nil
}

func (q *memQuerier) AddDeposits(ctx context.Context, userID int64, amount decimal.Decimal) error {
	u, ok := q.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.TotalDeposits = u.TotalDeposits.Add(amount)
	return nil
}

func (q *memQuerier) AddEarnings(ctx context.Context, userID int64, amount decimal.Decimal) error {
	u, ok := q.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.TotalEarnings = u.TotalEarnings.Add(amount)
	return nil
}

func (q *memQuerier) CreateReferral(ctx context.Context, r *domain.Referral) error {
	if err := q.fail("CreateReferral"); err != nil {
		return err
	}
	r.CreatedAt = q.s.tick()
	q.s.referrals = append(q.s.referrals, *r)
	return nil
}

func (q *memQuerier) GetAncestorEdges(ctx context.Context, referredID int64) ([]domain.Referral, error) {
	var edges []domain.Referral
	for _, r := range q.s.referrals {
		if r.ReferredID == referredID {
			edges = append(edges, r)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Level < edges[j].Level })
	return edges, nil
}

func (q *memQuerier) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.ReferralView, error) {
	views := []domain.ReferralView{}
	for _, r := range q.s.referrals {
		if r.ReferrerID == referrerID {
			views = append(views, domain.ReferralView{Referral: r, ReferredEmail: q.s.users[r.ReferredID].Email})
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Level != views[j].Level {
			return views[i].Level < views[j].Level
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (q *memQuerier) CreateDeposit(ctx context.Context, d *domain.Deposit) error {
	d.ID = int64(len(q.s.deposits) + 1)
	d.CreatedAt = q.s.tick()
	q.s.deposits = append(q.s.deposits, *d)
	return nil
}

func (q *memQuerier) CreateReward(ctx context.Context, r *domain.Reward) error {
	if err := q.fail("CreateReward"); err != nil {
		return err
	}
	r.ID = int64(len(q.s.rewards) + 1)
	r.Claimed = false
	r.CreatedAt = q.s.tick()
	q.s.rewards = append(q.s.rewards, *r)
	return nil
}

func (q *memQuerier) ClaimPendingRewards(ctx context.Context, userID int64) (int, decimal.Decimal, error) {
	count := 0
	sum := decimal.Zero
	for i := range q.s.rewards {
		r := &q.s.rewards[i]
		if r.UserID == userID && !r.Claimed {
			r.Claimed = true
			sum = sum.Add(r.RewardAmount)
			count++
		}
	}
	return count, sum, nil
}

func (q *memQuerier) GetRewardsByUser(ctx context.Context, userID int64) ([]domain.RewardView, error) {
	views := []domain.RewardView{}
	for i := len(q.s.rewards) - 1; i >= 0; i-- {
		r := q.s.rewards[i]
		if r.UserID == userID {
			views = append(views, domain.RewardView{Reward: r, FromEmail: q.s.users[r.FromUserID].Email})
		}
	}
	return views, nil
}

func (q *memQuerier) GetRewardLevels(ctx context.Context) ([]domain.RewardLevel, error) {
	if err := q.fail("GetRewardLevels"); err != nil {
		return nil, err
	}
	return append([]domain.RewardLevel(nil), q.s.levels...), nil
}

func (q *memQuerier) UpsertRewardLevel(ctx context.Context, l domain.RewardLevel) error {
	if err := q.fail("UpsertRewardLevel"); err != nil {
		return err
	}
	for i := range q.s.levels {
		if q.s.levels[i].Level == l.Level {
			q.s.levels[i].Percentage = l.Percentage
			return nil
		}
	}
	q.s.levels = append(q.s.levels, l)
	sort.Slice(q.s.levels, func(i, j int) bool { return q.s.levels[i].Level < q.s.levels[j].Level })
	return nil
}

func (q *memQuerier) GetProgramStats(ctx context.Context) (*domain.ProgramStats, error) {
	stats := &domain.ProgramStats{
		RewardsByLevel: map[int]int64{},
		DepositVolume:  decimal.Zero,
		PendingRewards: decimal.Zero,
		ClaimedRewards: decimal.Zero,
	}
	for _, u := range q.s.users {
		stats.TotalUsers++
		if u.ReferredBy != nil {
			stats.ReferredUsers++
		}
	}
	for _, d := range q.s.deposits {
		stats.TotalDeposits++
		stats.DepositVolume = stats.DepositVolume.Add(d.Amount)
	}
	for _, r := range q.s.rewards {
		stats.TotalRewards++
		stats.RewardsByLevel[r.Level]++
		if r.Claimed {
			stats.ClaimedRewards = stats.ClaimedRewards.Add(r.RewardAmount)
		} else {
			stats.PendingRewards = stats.PendingRewards.Add(r.RewardAmount)
		}
	}
	return stats, nil
}

func (q *memQuerier) CreateAuditLog(ctx context.Context, log *domain.AuditLog) error {
	if err := q.fail("CreateAuditLog"); err != nil {
		return err
	}
	log.ID = int64(len(q.s.audits) + 1)
	log.CreatedAt = q.s.tick()
	q.s.audits = append(q.s.audits, *log)
	return nil
}

var errStoreDown = errors.New("store unavailable")
