package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/platecost/internal/domain/models"
)

const (
	ingredientsCollection = "ingredients"
	recipesCollection     = "recipes"
	densitiesCollection   = "densities"
	snapshotsCollection   = "costing_snapshots"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the storage used by the costing services.
type Repository interface {
	GetRecipe(ctx context.Context, id string) (models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	SaveRecipe(ctx context.Context, recipe models.Recipe) error
	GetIngredients(ctx context.Context, ids []string) ([]models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error)
	ListDensityOverrides(ctx context.Context) ([]models.DensityOverride, error)
	UpsertDensityOverrides(ctx context.Context, overrides []models.DensityOverride) error
	SaveCostingSnapshot(ctx context.Context, snapshot models.CostingSnapshot) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// GetRecipe loads one recipe by id.
func (r *MongoDBRepository) GetRecipe(ctx context.Context, id string) (models.Recipe, error) {
	var recipe models.Recipe
	err := r.collection(recipesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to find recipe %s: %w", id, err)
	}
	return recipe, nil
}

// ListRecipes returns every recipe ordered by name.
func (r *MongoDBRepository) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.findAll(ctx, recipesCollection, bson.M{}, &recipes); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// SaveRecipe inserts or replaces a recipe.
func (r *MongoDBRepository) SaveRecipe(ctx context.Context, recipe models.Recipe) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(recipesCollection).ReplaceOne(ctx, bson.M{"_id": recipe.ID}, recipe, opts); err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// GetIngredients loads the ingredients matching ids. Unknown ids are ignored.
func (r *MongoDBRepository) GetIngredients(ctx context.Context, ids []string) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := r.findAll(ctx, ingredientsCollection, bson.M{"_id": bson.M{"$in": ids}}, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	return ingredients, nil
}

// ListIngredients returns the whole price list ordered by name.
func (r *MongoDBRepository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.findAll(ctx, ingredientsCollection, bson.M{}, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// UpsertIngredients replaces ingredients by id in one bulk write and returns
// how many documents were inserted or modified.
func (r *MongoDBRepository) UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(ingredients))
	for _, ing := range ingredients {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": ing.ID}).
			SetReplacement(ing).
			SetUpsert(true))
	}

	res, err := r.collection(ingredientsCollection).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert ingredients: %w", err)
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}

// ListDensityOverrides returns the stored per-ingredient densities.
func (r *MongoDBRepository) ListDensityOverrides(ctx context.Context) ([]models.DensityOverride, error) {
	var overrides []models.DensityOverride
	if err := r.findAll(ctx, densitiesCollection, bson.M{}, &overrides); err != nil {
		return nil, fmt.Errorf("failed to list density overrides: %w", err)
	}
	return overrides, nil
}

// UpsertDensityOverrides replaces density overrides by ingredient name.
func (r *MongoDBRepository) UpsertDensityOverrides(ctx context.Context, overrides []models.DensityOverride) error {
	if len(overrides) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(overrides))
	for _, o := range overrides {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": o.Name}).
			SetReplacement(o).
			SetUpsert(true))
	}

	if _, err := r.collection(densitiesCollection).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert density overrides: %w", err)
	}
	return nil
}

// SaveCostingSnapshot saves a costing snapshot to the database.
func (r *MongoDBRepository) SaveCostingSnapshot(ctx context.Context, snapshot models.CostingSnapshot) error {
	_, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert costing snapshot: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) findAll(ctx context.Context, coll string, filter bson.M, out interface{}) error {
	opts := options.Find()
	if coll != densitiesCollection {
		opts.SetSort(bson.D{{Key: "name", Value: 1}})
	}

	cursor, err := r.collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
