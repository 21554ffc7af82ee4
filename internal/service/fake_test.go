package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/urban-services/api/internal/database"
)

// --- In-memory transactional store ---
//
// fakeDB holds committed state. A fakeTx works on a private copy of that
// state which replaces the committed one on Commit and is dropped otherwise,
// so tests can observe atomicity without a real database.

type fakeState struct {
	nextID        int64
	subservices   map[int64]database.Subservice
	agents        map[int64]database.Agent
	groups        map[int64]database.OrderGroup
	lines         []database.Order
	payments      []database.Payment
	materials     []database.ExtraMaterial
	notifications map[int64]database.Notification
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		nextID:        s.nextID,
		subservices:   make(map[int64]database.Subservice, len(s.subservices)),
		agents:        make(map[int64]database.Agent, len(s.agents)),
		groups:        make(map[int64]database.OrderGroup, len(s.groups)),
		lines:         append([]database.Order(nil), s.lines...),
		payments:      append([]database.Payment(nil), s.payments...),
		materials:     append([]database.ExtraMaterial(nil), s.materials...),
		notifications: make(map[int64]database.Notification, len(s.notifications)),
	}
	for k, v := range s.subservices {
		c.subservices[k] = v
	}
	for k, v := range s.agents {
		c.agents[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

type fakeDB struct {
	mu    sync.Mutex
	state *fakeState
	clock time.Time

	beginErr       error
	failLineAt     int // 1-based CreateOrderLine call that fails; 0 disables
	lineCalls      int
	updateStatusFn func(arg database.UpdateOrderGroupStatusParams) error
	commits        int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		state: (&fakeState{}).clone(),
		clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (db *fakeDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return &fakeTx{db: db, staged: db.state.clone()}, nil
}

// store returns a store reading committed state.
func (db *fakeDB) store() *fakeStore { return &fakeStore{db: db} }

func (db *fakeDB) newStore(conn database.DBTX) OrderStore {
	if tx, ok := conn.(*fakeTx); ok {
		return &fakeStore{db: db, tx: tx}
	}
	return db.store()
}

func (db *fakeDB) addSubservice(name, price string) database.Subservice {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.nextID++
	sub := database.Subservice{
		ID:        db.state.nextID,
		ServiceID: 1,
		Name:      name,
		Price:     makeNumeric(price),
		CreatedAt: db.tick(),
	}
	db.state.subservices[sub.ID] = sub
	return sub
}

func (db *fakeDB) setPrice(id int64, price string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	sub := db.state.subservices[id]
	sub.Price = makeNumeric(price)
	db.state.subservices[id] = sub
}

func (db *fakeDB) addAgent(name, kind string) database.Agent {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.nextID++
	a := database.Agent{ID: db.state.nextID, Name: name, Type: kind, Email: name + "@agents.test", CreatedAt: db.tick()}
	db.state.agents[a.ID] = a
	return a
}

func (db *fakeDB) setStatus(groupID int64, status database.OrderStatus) {
	db.mu.Lock()
	defer db.mu.Unlock()
	g := db.state.groups[groupID]
	g.Status = status
	db.state.groups[groupID] = g
}

func (db *fakeDB) group(id int64) (database.OrderGroup, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	g, ok := db.state.groups[id]
	return g, ok
}

func (db *fakeDB) counts() (groups, lines int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.state.groups), len(db.state.lines)
}

// fakeTx implements pgx.Tx. Only Commit and Rollback are used by the services;
// the rest panic so accidental calls are caught.
type fakeTx struct {
	db     *fakeDB
	staged *fakeState
	done   bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.state = t.staged
	t.db.commits++
	t.done = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return nil
}
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (t *fakeTx) Conn() *pgx.Conn { panic("not implemented") }

// fakeStore implements OrderStore, LedgerStore and NotificationStore.
type fakeStore struct {
	db *fakeDB
	tx *fakeTx
}

func (s *fakeStore) st() *fakeState {
	if s.tx != nil {
		return s.tx.staged
	}
	return s.db.state
}

func (s *fakeStore) lock() func() {
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *fakeStore) ListSubservicesByIDs(ctx context.Context, ids []int64) ([]database.Subservice, error) {
	defer s.lock()()
	var out []database.Subservice
	for _, id := range ids {
		if sub, ok := s.st().subservices[id]; ok {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateOrderGroup(ctx context.Context, arg database.CreateOrderGroupParams) (database.OrderGroup, error) {
	defer s.lock()()
	st := s.st()
	st.nextID++
	now := s.db.tick()
	g := database.OrderGroup{
		ID:            st.nextID,
		UserID:        arg.UserID,
		Name:          arg.Name,
		Description:   arg.Description,
		Servicetime:   arg.Servicetime,
		TotalPrice:    arg.TotalPrice,
		Status:        database.OrderStatusPENDING,
		PaymentStatus: database.PaymentStatusUNPAID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	st.groups[g.ID] = g
	return g, nil
}

func (s *fakeStore) CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.Order, error) {
	defer s.lock()()
	s.db.lineCalls++
	if s.db.failLineAt > 0 && s.db.lineCalls == s.db.failLineAt {
		return database.Order{}, errors.New("insert line failed")
	}
	st := s.st()
	st.nextID++
	line := database.Order{
		ID:            st.nextID,
		GroupID:       arg.GroupID,
		SubserviceID:  arg.SubserviceID,
		ServiceCharge: arg.ServiceCharge,
		CreatedAt:     s.db.tick(),
	}
	st.lines = append(st.lines, line)
	return line, nil
}

func (s *fakeStore) GetOrderGroup(ctx context.Context, arg database.GetOrderGroupParams) (database.GetOrderGroupRow, error) {
	defer s.lock()()
	st := s.st()
	g, ok := st.groups[arg.ID]
	if !ok || g.UserID != arg.UserID {
		return database.GetOrderGroupRow{}, pgx.ErrNoRows
	}
	row := database.GetOrderGroupRow{OrderGroup: g}
	if g.AgentID.Valid {
		if a, ok := st.agents[g.AgentID.Int64]; ok {
			row.AgentName = pgtype.Text{String: a.Name, Valid: true}
			row.AgentType = pgtype.Text{String: a.Type, Valid: true}
			row.AgentEmail = pgtype.Text{String: a.Email, Valid: true}
		}
	}
	return row, nil
}

func (s *fakeStore) GetOrderGroupForUpdate(ctx context.Context, arg database.GetOrderGroupForUpdateParams) (database.OrderGroup, error) {
	defer s.lock()()
	g, ok := s.st().groups[arg.ID]
	if !ok || g.UserID != arg.UserID {
		return database.OrderGroup{}, pgx.ErrNoRows
	}
	return g, nil
}

func (s *fakeStore) UpdateOrderGroupStatus(ctx context.Context, arg database.UpdateOrderGroupStatusParams) (database.OrderGroup, error) {
	defer s.lock()()
	if s.db.updateStatusFn != nil {
		if err := s.db.updateStatusFn(arg); err != nil {
			return database.OrderGroup{}, err
		}
	}
	st := s.st()
	g, ok := st.groups[arg.ID]
	if !ok || g.UserID != arg.UserID || g.Status != arg.PrevStatus {
		return database.OrderGroup{}, pgx.ErrNoRows
	}
	g.Status = arg.Status
	g.UpdatedAt = s.db.tick()
	st.groups[g.ID] = g
	return g, nil
}

// seekBefore mirrors the SQL seek predicate: with an anchor row compare on
// (created_at, id), otherwise fall back to id alone.
func seekBefore(cursor pgtype.Int8, anchor func(id int64) (time.Time, bool), createdAt time.Time, id int64) bool {
	if !cursor.Valid {
		return true
	}
	if at, ok := anchor(cursor.Int64); ok {
		return createdAt.Before(at) || (createdAt.Equal(at) && id < cursor.Int64)
	}
	return id < cursor.Int64
}

func (s *fakeStore) ListOrderGroupsByUser(ctx context.Context, arg database.ListOrderGroupsByUserParams) ([]database.ListOrderGroupsByUserRow, error) {
	defer s.lock()()
	st := s.st()
	anchor := func(id int64) (time.Time, bool) {
		g, ok := st.groups[id]
		return g.CreatedAt, ok
	}
	var rows []database.ListOrderGroupsByUserRow
	for _, g := range st.groups {
		if g.UserID != arg.UserID || !seekBefore(arg.Cursor, anchor, g.CreatedAt, g.ID) {
			continue
		}
		row := database.ListOrderGroupsByUserRow{OrderGroup: g}
		if a, ok := st.agents[g.AgentID.Int64]; ok && g.AgentID.Valid {
			row.AgentName = pgtype.Text{String: a.Name, Valid: true}
			row.AgentType = pgtype.Text{String: a.Type, Valid: true}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return rows, nil
}

func (s *fakeStore) ListOrderLinesByGroup(ctx context.Context, groupID int64) ([]database.ListOrderLinesByGroupRow, error) {
	defer s.lock()()
	st := s.st()
	var rows []database.ListOrderLinesByGroupRow
	for _, l := range st.lines {
		if l.GroupID != groupID {
			continue
		}
		sub := st.subservices[l.SubserviceID]
		rows = append(rows, database.ListOrderLinesByGroupRow{
			Order:                 l,
			SubserviceName:        sub.Name,
			SubservicePrice:       sub.Price,
			SubserviceDescription: sub.Description,
		})
	}
	return rows, nil
}

func (s *fakeStore) ListPaymentsByGroup(ctx context.Context, groupID int64) ([]database.Payment, error) {
	defer s.lock()()
	var out []database.Payment
	for _, p := range s.st().payments {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) ListExtraMaterialsByGroup(ctx context.Context, groupID int64) ([]database.ListExtraMaterialsByGroupRow, error) {
	defer s.lock()()
	st := s.st()
	var out []database.ListExtraMaterialsByGroupRow
	for _, m := range st.materials {
		if m.GroupID == groupID {
			out = append(out, database.ListExtraMaterialsByGroupRow{
				ExtraMaterial: m,
				AddedByName:   st.agents[m.AddedByAgent].Name,
			})
		}
	}
	return out, nil
}

func (s *fakeStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	defer s.lock()()
	st := s.st()
	if _, ok := st.groups[arg.GroupID]; !ok {
		return database.Payment{}, errors.New("violates foreign key constraint")
	}
	st.nextID++
	p := database.Payment{
		ID:            st.nextID,
		GroupID:       arg.GroupID,
		Amount:        arg.Amount,
		Method:        arg.Method,
		TransactionID: arg.TransactionID,
		Note:          arg.Note,
		CreatedAt:     s.db.tick(),
	}
	st.payments = append(st.payments, p)
	return p, nil
}

func (s *fakeStore) CreateExtraMaterial(ctx context.Context, arg database.CreateExtraMaterialParams) (database.ExtraMaterial, error) {
	defer s.lock()()
	st := s.st()
	if _, ok := st.groups[arg.GroupID]; !ok {
		return database.ExtraMaterial{}, errors.New("violates foreign key constraint")
	}
	st.nextID++
	m := database.ExtraMaterial{
		ID:           st.nextID,
		GroupID:      arg.GroupID,
		AddedByAgent: arg.AddedByAgent,
		Name:         arg.Name,
		Quantity:     arg.Quantity,
		Price:        arg.Price,
		Description:  arg.Description,
		CreatedAt:    s.db.tick(),
	}
	st.materials = append(st.materials, m)
	return m, nil
}

func (s *fakeStore) CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error) {
	defer s.lock()()
	st := s.st()
	st.nextID++
	n := database.Notification{
		ID:        st.nextID,
		UserID:    arg.UserID,
		Title:     arg.Title,
		Message:   arg.Message,
		CreatedAt: s.db.tick(),
	}
	st.notifications[n.ID] = n
	return n, nil
}

func (s *fakeStore) ListNotificationsByUser(ctx context.Context, arg database.ListNotificationsByUserParams) ([]database.Notification, error) {
	defer s.lock()()
	st := s.st()
	anchor := func(id int64) (time.Time, bool) {
		n, ok := st.notifications[id]
		return n.CreatedAt, ok
	}
	var rows []database.Notification
	for _, n := range st.notifications {
		if n.UserID == arg.UserID && seekBefore(arg.Cursor, anchor, n.CreatedAt, n.ID) {
			rows = append(rows, n)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if len(rows) > int(arg.Limit) {
		rows = rows[:arg.Limit]
	}
	return rows, nil
}

func (s *fakeStore) MarkNotificationRead(ctx context.Context, arg database.MarkNotificationReadParams) (database.Notification, error) {
	defer s.lock()()
	st := s.st()
	n, ok := st.notifications[arg.ID]
	if !ok || n.UserID != arg.UserID {
		return database.Notification{}, pgx.ErrNoRows
	}
	n.IsRead = true
	st.notifications[n.ID] = n
	return n, nil
}

func (s *fakeStore) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	defer s.lock()()
	st := s.st()
	var count int64
	for id, n := range st.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			st.notifications[id] = n
			count++
		}
	}
	return count, nil
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func mustScope(userID int64) Scope {
	s, err := NewScope(userID)
	if err != nil {
		panic(err)
	}
	return s
}

func newTestOrderService(db *fakeDB) *OrderService {
	return NewOrderService(db, db.store(), db.newStore)
}
