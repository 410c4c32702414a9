// Package mongostore implements the store on MongoDB. Reviews are embedded
// in their product document so a review and the rating it changes are
// written by one single-document update.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	cartsCollection    = "carts"
	ordersCollection   = "orders"
)

type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// productDoc is the stored product shape: the product plus its reviews.
type productDoc struct {
	models.Product `bson:",inline"`
	Reviews        []models.Review `bson:"reviews"`
}

// withoutReviews keeps the embedded review list off product reads.
var withoutReviews = bson.M{"reviews": 0}

// Open connects to uri, selects database name and ensures indexes.
func Open(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	s := New(client, name)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Printf("✅ mongo store ready (db=%s)", name)
	return s, nil
}

func New(client *mongo.Client, name string) *Store {
	db := client.Database(name)
	return &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		products: db.Collection(productsCollection),
		carts:    db.Collection(cartsCollection),
		orders:   db.Collection(ordersCollection),
		now:      time.Now,
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	}); err != nil {
		return fmt.Errorf("products index: %w", err)
	}
	if _, err := s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("orders index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// ─────────── Users ───────────

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetProjection(bson.M{"password_digest": 0}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ─────────── Products ───────────

func productFilter(q models.ProductQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if c := q.CategoryFilter(); c != "" {
		filter["category"] = c
	}
	return filter
}

func productSort(sortKey string) bson.D {
	switch sortKey {
	case models.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}}
	case models.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}}
	case models.SortName:
		return bson.D{{Key: "title", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (s *Store) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	cur, err := s.products.Find(ctx, productFilter(q),
		options.Find().SetSort(productSort(q.Sort)).SetProjection(withoutReviews))
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	values, err := s.products.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(withoutReviews)).Decode(&p)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) newDoc(p *models.Product) productDoc {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return productDoc{Product: *p, Reviews: []models.Review{}}
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.products.InsertOne(ctx, s.newDoc(p))
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	var p models.Product
	in.Apply(&p)
	update := bson.M{"$set": bson.M{
		"title":       p.Title,
		"price":       p.Price,
		"description": p.Description,
		"category":    p.Category,
		"image":       p.Image,
		"updated_at":  s.now(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutReviews)
	if err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.products.CountDocuments(ctx, bson.M{})
}

func (s *Store) InsertProducts(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ps))
	for i := range ps {
		docs[i] = s.newDoc(&ps[i])
	}
	_, err := s.products.InsertMany(ctx, docs)
	return err
}

// ─────────── Carts ───────────

func (s *Store) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	update := bson.M{"$setOnInsert": bson.M{"items": bson.A{}, "updated_at": s.now()}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var cart models.Cart
	if err := s.carts.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (s *Store) ReplaceCart(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, Items: append([]models.CartItem{}, items...), UpdatedAt: s.now()}
	if _, err := s.carts.ReplaceOne(ctx, bson.M{"_id": userID}, cart, options.Replace().SetUpsert(true)); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	_, err := s.carts.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updated_at": s.now()}},
		options.Update().SetUpsert(true))
	return err
}

// ─────────── Orders ───────────

// PlaceOrder inserts the order and only then clears the cart. If clearing
// fails the order stands and the error is returned.
func (s *Store) PlaceOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return err
	}
	if err := s.ClearCart(ctx, o.UserID); err != nil {
		return fmt.Errorf("order %s stored, clearing cart: %w", o.ID, err)
	}
	return nil
}

func (s *Store) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := s.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID})
}

func (s *Store) OrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var o models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&o); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	err := s.orders.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ─────────── Reviews ───────────

// ratingPipeline appends r and recomputes rating.count and rating.average
// from the resulting array. The average is rounded half up to one decimal.
func ratingPipeline(r models.Review) mongo.Pipeline {
	avg := bson.M{"$avg": "$reviews.rating"}
	roundedAvg := bson.M{"$divide": bson.A{
		bson.M{"$floor": bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{avg, 10}}, 0.5}}},
		10,
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{bson.M{"$literal": r}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"rating.count":   bson.M{"$size": "$reviews"},
			"rating.average": roundedAvg,
		}}},
	}
}

func (s *Store) AddReview(ctx context.Context, r *models.Review) (*models.Product, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutReviews)
	var p models.Product
	if err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": r.ProductID}, ratingPipeline(*r), opts).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) ReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	var doc productDoc
	err := s.products.FindOne(ctx, bson.M{"_id": productID},
		options.FindOne().SetProjection(bson.M{"reviews": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Review{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Reviews == nil {
		return []models.Review{}, nil
	}
	return doc.Reviews, nil
}
