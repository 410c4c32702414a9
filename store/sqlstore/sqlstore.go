// Package sqlstore implements the store on gorm, for postgres and mysql.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects with the given dialect ("postgres" or "mysql") and migrates
// the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = gormmysql.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	log.Printf("✅ %s store ready", driver)
	return s, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate auto-migrates all tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// isDuplicate recognises a unique violation from either dialect, translated or not.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// ─────────── Users ───────────

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return store.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "email", "name", "role", "created_at"). // Select only public fields
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ─────────── Products ───────────

func (s *Store) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if q.Search != "" {
		likePattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", likePattern, likePattern)
	}
	if c := q.CategoryFilter(); c != "" {
		query = query.Where("category = ?", c)
	}

	switch q.Sort {
	case models.SortPriceLow:
		query = query.Order("price asc")
	case models.SortPriceHigh:
		query = query.Order("price desc")
	case models.SortName:
		query = query.Order("title asc")
	default:
		query = query.Order("created_at desc")
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		in.Apply(&p)
		return tx.Model(&p).Updates(map[string]interface{}{
			"title":       p.Title,
			"price":       p.Price,
			"description": p.Description,
			"category":    p.Category,
			"image":       p.Image,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (s *Store) InsertProducts(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	for i := range ps {
		if ps[i].ID == "" {
			ps[i].ID = uuid.NewString()
		}
	}
	return s.db.WithContext(ctx).CreateInBatches(ps, 100).Error
}

// ─────────── Carts ───────────

func (s *Store) cartFor(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (s *Store) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cartFor(s.db.WithContext(ctx), userID)
}

func (s *Store) ReplaceCart(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cart, err = s.cartFor(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		fresh := make([]models.CartItem, len(items))
		for i, it := range items {
			it.ID = 0
			it.CartID = cart.CartID
			fresh[i] = it
		}
		if len(fresh) > 0 {
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
		}
		cart.Items = fresh
		cart.UpdatedAt = time.Now()
		return tx.Model(cart).Update("updated_at", cart.UpdatedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Store) clearCart(tx *gorm.DB, userID string) error {
	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Model(&cart).Update("updated_at", time.Now()).Error
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	return s.clearCart(s.db.WithContext(ctx), userID)
}

// ─────────── Orders ───────────

func (s *Store) PlaceOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create order
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		// Clear cart items
		return s.clearCart(tx, o.UserID)
	})
}

func (s *Store) ordersQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC")
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.ordersQuery(ctx).Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) OrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	if err := s.ordersQuery(ctx).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.ordersQuery(ctx).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// RowsAffected counts changed rows on mysql, not matched ones.
		if err := tx.Select("id").First(&models.Order{}, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		return tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := s.ordersQuery(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// ─────────── Reviews ───────────

func (s *Store) AddReview(ctx context.Context, r *models.Review) (*models.Product, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialise concurrent reviews of one product on its row.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", r.ProductID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		var ratings []int
		if err := tx.Model(&models.Review{}).Where("product_id = ?", r.ProductID).Pluck("rating", &ratings).Error; err != nil {
			return err
		}
		product.Rating = models.AggregateRating(ratings)
		return tx.Model(&product).Updates(map[string]interface{}{
			"rating_average": product.Rating.Average,
			"rating_count":   product.Rating.Count,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Store) ReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at asc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
