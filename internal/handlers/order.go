package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partstore/internal/middleware"
	"partstore/internal/models"
	"partstore/internal/notify"
	"partstore/internal/realtime"
)

/* =========================
   DOMAIN ERRORS
========================= */

type insufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e insufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available %d, requested %d)", e.Name, e.Available, e.Requested)
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

var (
	errCartEmpty     = errors.New("cart is empty")
	errItemNotInCart = errors.New("item not in cart")
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress" binding:"required"`
}

type shippingAddressRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type updateOrderRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	TrackingNumber string `json:"trackingNumber"`
}

// Notifiers bundles the best-effort channels fired after order creation.
// Every field may be nil.
type Notifiers struct {
	Mailer    *notify.Mailer
	Publisher *notify.Publisher
	Hub       *realtime.Hub
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder converts the caller's cart into an order. The stock checks and
// decrements, the order insert and the cart delete run in one transaction so
// they succeed or fail together; the payment-intent record, user stats and
// notifications follow outside it.
func CreateOrder(db *mongo.Database, notifiers Notifiers) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		var categories []string

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			var cart models.Cart
			err := db.Collection("carts").FindOne(sessCtx, bson.M{"userId": userID}).Decode(&cart)
			if err == mongo.ErrNoDocuments {
				return nil, errCartEmpty
			}
			if err != nil {
				return nil, err
			}
			if len(cart.Items) == 0 {
				return nil, errCartEmpty
			}

			orderItems := make([]models.OrderItem, 0, len(cart.Items))
			total := 0.0
			categories = categories[:0]

			for _, item := range cart.Items {
				var product models.Product
				err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": item.ProductID}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}

				// Re-validated at order time; the first shortage aborts.
				if product.Stock < item.Quantity {
					return nil, insufficientStockError{
						Name:      product.Name,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				// The guard filter keeps stock from ever going negative even
				// if a concurrent order slipped between the read and here.
				res, err := db.Collection("products").UpdateOne(sessCtx,
					bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
					bson.M{"$inc": bson.M{"stock": -item.Quantity}},
				)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, insufficientStockError{
						Name:      product.Name,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				orderItems = append(orderItems, models.OrderItem{
					ProductID: item.ProductID,
					Name:      item.Name,
					Price:     item.Price,
					Image:     item.Image,
					Quantity:  item.Quantity,
				})
				total += item.Price * float64(item.Quantity)
				categories = append(categories, product.Category)
			}

			now := time.Now()
			order = models.Order{
				UserID:          userID,
				Items:           orderItems,
				TotalAmount:     total,
				Status:          "pending",
				PaymentStatus:   "pending",
				ShippingAddress: models.ShippingAddress(req.ShippingAddress),
				CreatedAt:       now,
				UpdatedAt:       now,
			}

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			if _, err := db.Collection("carts").DeleteOne(sessCtx, bson.M{"_id": cart.ID}); err != nil {
				return nil, err
			}

			return nil, nil
		})
		if err != nil {
			respondOrderError(c, route, err)
			return
		}

		intentID := createPaymentIntent(ctx, db, order)
		if intentID != "" {
			order.PaymentIntentID = intentID
			_, _ = db.Collection("orders").UpdateByID(ctx, order.ID, bson.M{
				"$set": bson.M{"paymentIntentId": intentID},
			})
		}

		applyOrderToUserStats(ctx, db, userID, order, categories)
		fireOrderNotifications(ctx, db, notifiers, userID, order)

		log.Printf("[%s] order %s created for user %s", route, order.ID.Hex(), userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"orderId":         order.ID.Hex(),
			"totalAmount":     order.TotalAmount,
			"paymentIntentId": order.PaymentIntentID,
			"message":         "order created",
		})
	}
}

func respondOrderError(c *gin.Context, route string, err error) {
	var stockErr insufficientStockError
	if errors.As(err, &stockErr) {
		log.Printf("[%s] %s", route, stockErr.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient stock",
			"product":   stockErr.Name,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	var notFoundErr productNotFoundError
	if errors.As(err, &notFoundErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "product not found",
			"productId": notFoundErr.ProductID.Hex(),
		})
		return
	}
	if errors.Is(err, errCartEmpty) {
		respondWithError(c, http.StatusBadRequest, route, "cart is empty")
		return
	}
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

// createPaymentIntent writes the local payment record with amount equal to
// the order total. No gateway is called.
func createPaymentIntent(ctx context.Context, db *mongo.Database, order models.Order) string {
	intent := models.PaymentIntent{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		Currency:  "usd",
		Status:    "created",
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection("payment_intents").InsertOne(ctx, intent); err != nil {
		log.Println("[ORDER] [ERROR] payment intent insert failed:", err)
		return ""
	}
	return intent.ID
}

func applyOrderToUserStats(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, order models.Order, categories []string) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{
			"totalOrders": 1,
			"totalSpent":  order.TotalAmount,
		},
		"$addToSet": bson.M{
			"preferredCategories": bson.M{"$each": categories},
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	var user models.User
	if err := db.Collection("users").FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&user); err != nil {
		log.Println("[ORDER] [ERROR] user stats update failed:", err)
		return
	}

	tier := models.LoyaltyTierFor(user.TotalSpent)
	if tier != user.LoyaltyTier {
		_, _ = db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{"loyaltyTier": tier}})
	}
}

// fireOrderNotifications runs the best-effort channels. Failures are logged
// and never affect the already-committed order.
func fireOrderNotifications(ctx context.Context, db *mongo.Database, notifiers Notifiers, userID primitive.ObjectID, order models.Order) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		if err := notifiers.Mailer.SendOrderConfirmation(user.Email, user.Name, order.ID.Hex(), order.TotalAmount); err != nil {
			log.Println("[ORDER] [WARN] confirmation email failed:", err)
		}
	}

	if err := notifiers.Publisher.PublishOrderCreated(order); err != nil {
		log.Println("[ORDER] [WARN] order event publish failed:", err)
	}

	notifiers.Hub.BroadcastOrder(order)
}

/* =========================
   LIST / GET / UPDATE
========================= */

// GetOrders returns the caller's own orders; admins see everyone's, with an
// optional status filter.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Role comes from the freshly loaded user record, not token claims.
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		filter := bson.M{"userId": userID}
		if user.Role == "admin" {
			filter = bson.M{}
			if status := c.Query("status"); status != "" {
				filter["status"] = status
			}
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d orders", route, len(orders))
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		if order.UserID != userID {
			var user models.User
			if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil || user.Role != "admin" {
				respondWithError(c, http.StatusForbidden, route, "forbidden")
				return
			}
		}

		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatus transitions status/paymentStatus/tracking. Cancelling an
// order does not restore product stock.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Status != "" {
			if !models.ValidOrderStatus(req.Status) {
				respondWithError(c, http.StatusBadRequest, route, "invalid status")
				return
			}
			set["status"] = req.Status
		}
		if req.PaymentStatus != "" {
			if !models.ValidPaymentStatus(req.PaymentStatus) {
				respondWithError(c, http.StatusBadRequest, route, "invalid paymentStatus")
				return
			}
			set["paymentStatus"] = req.PaymentStatus
		}
		if req.TrackingNumber != "" {
			set["trackingNumber"] = req.TrackingNumber
		}
		if len(set) == 1 {
			respondWithError(c, http.StatusBadRequest, route, "nothing to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order updated"})
	}
}
