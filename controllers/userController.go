package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserController manages citizen/admin accounts.
type UserController struct {
	users *mongo.Collection
}

func NewUserController(users *mongo.Collection) *UserController {
	return &UserController{users: users}
}

func userIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetAllUsers returns every user
func (uc *UserController) GetAllUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := uc.users.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser registers a user, or returns the existing record when the uid
// (or email, when no uid is supplied) is already known.
func (uc *UserController) CreateUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"omitempty,min=6"`
		UID      string `json:"uid"`
		Photo    string `json:"photo"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	query := bson.M{"email": input.Email}
	if input.UID != "" {
		query = bson.M{"uid": input.UID}
	}

	var existing models.User
	err := uc.users.FindOne(ctx, query).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Error checking existing user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		UID:       input.UID,
		Photo:     input.Photo,
		Password:  input.Password,
		Premium:   false,
		Blocked:   false,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if user.Password != "" {
		if err := user.HashPassword(); err != nil {
			log.Println("Error hashing password:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}
	}

	if _, err := uc.users.InsertOne(ctx, user); err != nil {
		log.Println("Error inserting user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a single user by ID
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var user models.User
	err := uc.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) setUserField(c *gin.Context, field string, value interface{}) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := uc.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: value, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// SetPremium sets the premium flag. Defaults to true when no body is sent.
func (uc *UserController) SetPremium(c *gin.Context) {
	input := struct {
		Premium *bool `json:"premium"`
	}{}
	_ = c.ShouldBindJSON(&input)

	premium := true
	if input.Premium != nil {
		premium = *input.Premium
	}
	uc.setUserField(c, "premium", premium)
}

// MakeAdmin promotes a user to the admin role
func (uc *UserController) MakeAdmin(c *gin.Context) {
	uc.setUserField(c, "role", models.RoleAdmin)
}

// BlockUser sets the blocked flag. Defaults to true when no body is sent.
func (uc *UserController) BlockUser(c *gin.Context) {
	input := struct {
		Blocked *bool `json:"blocked"`
	}{}
	_ = c.ShouldBindJSON(&input)

	blocked := true
	if input.Blocked != nil {
		blocked = *input.Blocked
	}
	uc.setUserField(c, "blocked", blocked)
}

// DeleteUser removes a user account
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := uc.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
