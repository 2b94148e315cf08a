package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/pointsale/internal/catalog/domain"
	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
	"go.uber.org/fx"
)

var ErrNotInCart = errors.New("not_in_cart")

var Module = fx.Module("cart",
	fx.Provide(NewStore),
)

// Store holds one in-memory cart per customer. Carts are not persisted.
type Store struct {
	mu    sync.Mutex
	carts map[string][]catalogdomain.Item
}

func NewStore() *Store {
	return &Store{carts: make(map[string][]catalogdomain.Item)}
}

// Add appends item; the same title may be added more than once.
func (s *Store) Add(username string, item catalogdomain.Item) {
	key := customerdomain.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = append(s.carts[key], item)
}

// Remove drops the first entry matching title.
func (s *Store) Remove(username, title string) error {
	key := customerdomain.NormalizeUsername(username)
	want := catalogdomain.TitleKey(title)

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[key]
	for i, item := range items {
		if catalogdomain.TitleKey(item.Title) == want {
			s.carts[key] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotInCart
}

func (s *Store) Items(username string) []catalogdomain.Item {
	key := customerdomain.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalogdomain.Item, len(s.carts[key]))
	copy(out, s.carts[key])
	return out
}

func (s *Store) Total(username string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items(username) {
		total = total.Add(item.Price)
	}
	return total
}

func (s *Store) Clear(username string) {
	key := customerdomain.NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
}
