package basket

import (
	"context"
	"testing"
	"time"

	"storefront/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	redisClient *redis.Client
	store       *RedisStore
	ctx         context.Context
}

func TestRedisStore(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (suite *RedisStoreTestSuite) SetupTest() {
	suite.mr = miniredis.RunT(suite.T())
	suite.redisClient = redis.NewClient(&redis.Options{Addr: suite.mr.Addr()})
	suite.store = NewRedisStore(suite.redisClient, time.Hour)
	suite.ctx = context.Background()
}

func (suite *RedisStoreTestSuite) TearDownTest() {
	suite.redisClient.Close()
}

func sampleBasket(id string) *models.Basket {
	return &models.Basket{
		ID: id,
		Items: []models.BasketItem{
			{ID: 1, ProductName: "Angular Speedster Board 2000", Price: decimal.RequireFromString("200"), Quantity: 2, Brand: "Angular", Category: "Boards"},
			{ID: 7, ProductName: "Core Blue Hat", Price: decimal.RequireFromString("10.5"), Quantity: 1, Brand: "NetCore", Category: "Hats"},
		},
	}
}

func (suite *RedisStoreTestSuite) TestGetMissingReturnsEmptyBasket() {
	basket, err := suite.store.Get(suite.ctx, "nope")
	suite.Require().NoError(err)
	suite.Equal("nope", basket.ID)
	suite.NotNil(basket.Items)
	suite.Empty(basket.Items)
}

func (suite *RedisStoreTestSuite) TestUpdateThenGet() {
	stored, err := suite.store.Update(suite.ctx, sampleBasket("b1"))
	suite.Require().NoError(err)
	suite.Require().Len(stored.Items, 2)
	suite.Equal("410.5", stored.Total().String())

	got, err := suite.store.Get(suite.ctx, "b1")
	suite.Require().NoError(err)
	suite.Equal(stored, got)
	suite.True(suite.mr.Exists("basket:b1"))
}

func (suite *RedisStoreTestSuite) TestUpdateOverwrites() {
	_, err := suite.store.Update(suite.ctx, sampleBasket("b1"))
	suite.Require().NoError(err)

	replacement := &models.Basket{ID: "b1", Items: []models.BasketItem{
		{ID: 3, ProductName: "Core Board Speed Rush 3", Price: decimal.RequireFromString("180"), Quantity: 1},
	}}
	_, err = suite.store.Update(suite.ctx, replacement)
	suite.Require().NoError(err)

	got, err := suite.store.Get(suite.ctx, "b1")
	suite.Require().NoError(err)
	suite.Require().Len(got.Items, 1)
	suite.EqualValues(3, got.Items[0].ID)
}

func (suite *RedisStoreTestSuite) TestDeleteThenGetIsEmpty() {
	_, err := suite.store.Update(suite.ctx, sampleBasket("b1"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Delete(suite.ctx, "b1"))
	suite.False(suite.mr.Exists("basket:b1"))

	got, err := suite.store.Get(suite.ctx, "b1")
	suite.Require().NoError(err)
	suite.Empty(got.Items)

	suite.NoError(suite.store.Delete(suite.ctx, "never-existed"))
}

func (suite *RedisStoreTestSuite) TestExpirySlidesOnUpdate() {
	_, err := suite.store.Update(suite.ctx, sampleBasket("b1"))
	suite.Require().NoError(err)
	suite.Equal(time.Hour, suite.mr.TTL("basket:b1"))

	suite.mr.FastForward(40 * time.Minute)
	_, err = suite.store.Update(suite.ctx, sampleBasket("b1"))
	suite.Require().NoError(err)
	suite.Equal(time.Hour, suite.mr.TTL("basket:b1"))

	suite.mr.FastForward(40 * time.Minute)
	got, err := suite.store.Get(suite.ctx, "b1")
	suite.Require().NoError(err)
	suite.Len(got.Items, 2)

	suite.mr.FastForward(30 * time.Minute)
	got, err = suite.store.Get(suite.ctx, "b1")
	suite.Require().NoError(err)
	suite.Empty(got.Items)
}

func (suite *RedisStoreTestSuite) TestUpdateRejectsMissingID() {
	_, err := suite.store.Update(suite.ctx, &models.Basket{})
	suite.ErrorIs(err, ErrInvalidBasket)
}

func (suite *RedisStoreTestSuite) TestCorruptValue() {
	suite.Require().NoError(suite.mr.Set("basket:bad", "{not json"))
	_, err := suite.store.Get(suite.ctx, "bad")
	suite.ErrorIs(err, ErrInvalidBasket)
}

func (suite *RedisStoreTestSuite) TestRedisDown() {
	suite.mr.Close()
	_, err := suite.store.Get(suite.ctx, "b1")
	suite.Error(err)
	suite.NotErrorIs(err, ErrInvalidBasket)
}
