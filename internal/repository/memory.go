package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
)

// memoryTable is a map backed table with datastore style id assignment.
type memoryTable[T any] struct {
	mu     sync.RWMutex
	name   string
	rows   map[int64]T
	nextID int64
	id     func(*T) *int64
	clone  func(T) T
}

func newMemoryTable[T any](name string, id func(*T) *int64, clone func(T) T) *memoryTable[T] {
	return &memoryTable[T]{name: name, rows: make(map[int64]T), id: id, clone: clone}
}

func (t *memoryTable[T]) Save(_ context.Context, entity *T) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := t.clone(*entity)
	id := t.id(&row)
	if *id == 0 {
		t.nextID++
		*id = t.nextID
	} else if _, ok := t.rows[*id]; !ok {
		return nil, sqlerr.NotFound(t.name, *id)
	}

	t.rows[*id] = row
	out := t.clone(row)
	return &out, nil
}

func (t *memoryTable[T]) FindByID(_ context.Context, id int64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, sqlerr.NotFound(t.name, id)
	}
	out := t.clone(row)
	return &out, nil
}

func (t *memoryTable[T]) FindAllByID(_ context.Context, ids []int64) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make([]T, 0, len(sorted))
	for _, id := range sorted {
		if row, ok := t.rows[id]; ok {
			out = append(out, t.clone(row))
		}
	}
	return out, nil
}

// MemoryInterestRepository keeps interests in memory.
type MemoryInterestRepository struct {
	*memoryTable[model.Interest]
}

var _ Repository[model.Interest] = (*MemoryInterestRepository)(nil)

// NewMemoryInterestRepository returns an empty interest store.
func NewMemoryInterestRepository() *MemoryInterestRepository {
	return &MemoryInterestRepository{newMemoryTable(interestsTable,
		func(i *model.Interest) *int64 { return &i.ID },
		func(i model.Interest) model.Interest { return i },
	)}
}

// MemoryProductRepository keeps products in memory.
type MemoryProductRepository struct {
	*memoryTable[model.Product]
}

var _ Repository[model.Product] = (*MemoryProductRepository)(nil)

// NewMemoryProductRepository returns an empty product store.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{newMemoryTable(productsTable,
		func(p *model.Product) *int64 { return &p.ID },
		cloneProduct,
	)}
}

// MemoryUserRepository keeps user aggregates in memory and assigns fridge
// and item ids the same way UserRepository does.
//
// Fridge items only keep a reference to their product. Reads join the
// current row from products, and saving an item that points at an unknown
// product fails with the foreign key violation Postgres would raise.
type MemoryUserRepository struct {
	*memoryTable[model.User]

	products  *MemoryProductRepository
	fridgeSeq int64
	itemSeq   int64
}

var _ Repository[model.User] = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository returns an empty user store joining products from products.
func NewMemoryUserRepository(products *MemoryProductRepository) *MemoryUserRepository {
	return &MemoryUserRepository{
		memoryTable: newMemoryTable(usersTable,
			func(u *model.User) *int64 { return &u.ID },
			cloneUser,
		),
		products: products,
	}
}

// Save stores the aggregate the way UserRepository.Save does: the fridge
// is kept when the payload has none, updated in place when its id matches
// and replaced otherwise.
func (r *MemoryUserRepository) Save(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := cloneUser(*user)

	var current *model.Fridge
	if row.ID == 0 {
		r.nextID++
		row.ID = r.nextID
	} else {
		stored, ok := r.rows[row.ID]
		if !ok {
			return nil, sqlerr.NotFound(usersTable, row.ID)
		}
		current = stored.Fridge
	}

	if row.Fridge != nil {
		if err := r.referenceProducts(row.Fridge); err != nil {
			return nil, err
		}
	}

	switch {
	case row.Fridge == nil:
		row.Fridge = current
	case current != nil && row.Fridge.ID == current.ID:
		r.assignItemIDs(row.Fridge, current.Items)
	default:
		r.fridgeSeq++
		row.Fridge.ID = r.fridgeSeq
		r.assignItemIDs(row.Fridge, nil)
	}

	interests := make([]model.Interest, 0, len(row.Interests))
	for _, id := range row.InterestIDs() {
		idx := slices.IndexFunc(row.Interests, func(i model.Interest) bool { return i.ID == id })
		interests = append(interests, row.Interests[idx])
	}
	slices.SortFunc(interests, func(a, b model.Interest) int { return cmp.Compare(a.ID, b.ID) })
	row.Interests = interests

	row.LinkFridge()
	row.Normalize()
	r.rows[row.ID] = row

	out := r.load(row)
	return &out, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, sqlerr.NotFound(usersTable, id)
	}
	out := r.load(row)
	return &out, nil
}

func (r *MemoryUserRepository) FindAllByID(ctx context.Context, ids []int64) ([]model.User, error) {
	users, err := r.memoryTable.FindAllByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range users {
		users[i] = r.load(users[i])
	}
	return users, nil
}

// referenceProducts reduces every item's product to its id, failing on ids
// that are not in the product table.
func (r *MemoryUserRepository) referenceProducts(fridge *model.Fridge) error {
	r.products.mu.RLock()
	defer r.products.mu.RUnlock()

	for i := range fridge.Items {
		item := &fridge.Items[i]
		id := item.ProductID()
		if id == 0 {
			item.Product = nil
			continue
		}
		if _, ok := r.products.rows[id]; !ok {
			return &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23503",
				Message:        `insert or update on table "fridge_items" violates foreign key constraint "fridge_items_product_id_fkey"`,
				TableName:      "fridge_items",
				ConstraintName: "fridge_items_product_id_fkey",
			}
		}
		item.Product = &model.Product{ID: id}
	}
	return nil
}

// load returns a copy of row with each item's product joined in.
func (r *MemoryUserRepository) load(row model.User) model.User {
	out := cloneUser(row)
	if out.Fridge == nil {
		return out
	}

	r.products.mu.RLock()
	defer r.products.mu.RUnlock()

	for i := range out.Fridge.Items {
		item := &out.Fridge.Items[i]
		if product, ok := r.products.rows[item.ProductID()]; ok {
			joined := cloneProduct(product)
			item.Product = &joined
		}
	}
	return out
}

func (r *MemoryUserRepository) assignItemIDs(fridge *model.Fridge, existing []model.FridgeItem) {
	for i := range fridge.Items {
		item := &fridge.Items[i]
		if item.ID != 0 && slices.ContainsFunc(existing, func(e model.FridgeItem) bool { return e.ID == item.ID }) {
			continue
		}
		r.itemSeq++
		item.ID = r.itemSeq
	}
}

func cloneProduct(p model.Product) model.Product {
	return p
}

func cloneUser(u model.User) model.User {
	out := u
	out.Unbind()
	out.Interests = slices.Clone(u.Interests)
	if u.Fridge != nil {
		fridge := *u.Fridge
		fridge.Items = make([]model.FridgeItem, len(u.Fridge.Items))
		for i, item := range u.Fridge.Items {
			if item.Product != nil {
				product := cloneProduct(*item.Product)
				item.Product = &product
			}
			fridge.Items[i] = item
		}
		out.Fridge = &fridge
	}
	return out
}
