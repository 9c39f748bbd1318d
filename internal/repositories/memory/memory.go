// Package memory provides in-memory implementations of the repository
// interfaces. They back the service tests and the storage.driver=memory
// mode, which runs the full API without a MongoDB instance.
package memory

import (
	"sort"
	"sync"

	"github.com/powersave-cy/powersave-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store bundles every in-memory repository over one shared mutex, so a
// multi-document write (ledger append + account update) observes the same
// serialization the per-user locks provide at the service layer.
type Store struct {
	mu           sync.RWMutex
	users        map[primitive.ObjectID]*models.User
	accounts     map[primitive.ObjectID]*models.Account // keyed by user ID
	transactions []*models.Transaction
	sessions     map[primitive.ObjectID]*models.Session
	gardens      map[primitive.ObjectID]*models.Garden // keyed by user ID
	plants       map[string]*models.PlantCatalogEntry
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]*models.User),
		accounts: make(map[primitive.ObjectID]*models.Account),
		sessions: make(map[primitive.ObjectID]*models.Session),
		gardens:  make(map[primitive.ObjectID]*models.Garden),
		plants:   make(map[string]*models.PlantCatalogEntry),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Accounts returns the account repository view of the store
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

// Transactions returns the ledger repository view of the store
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

// Sessions returns the session repository view of the store
func (s *Store) Sessions() *SessionRepository { return &SessionRepository{store: s} }

// Gardens returns the garden repository view of the store
func (s *Store) Gardens() *GardenRepository { return &GardenRepository{store: s} }

// PlantCatalog returns the catalog repository view of the store
func (s *Store) PlantCatalog() *PlantCatalogRepository { return &PlantCatalogRepository{store: s} }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	c := *t
	return &c
}

func copySession(s *models.Session) *models.Session {
	c := *s
	return &c
}

// copyGarden deep-copies the cell arena so callers never alias stored state.
func copyGarden(g *models.Garden) *models.Garden {
	c := *g
	c.Cells = make([]models.GardenCell, len(g.Cells))
	copy(c.Cells, g.Cells)
	for i := range c.Cells {
		if c.Cells[i].Plant != nil {
			plant := *c.Cells[i].Plant
			c.Cells[i].Plant = &plant
		}
	}
	return &c
}

func copyPlant(p *models.PlantCatalogEntry) *models.PlantCatalogEntry {
	c := *p
	return &c
}

func sortSessionsByScheduledStartDesc(sessions []*models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].ScheduledStart.After(sessions[j].ScheduledStart)
	})
}
