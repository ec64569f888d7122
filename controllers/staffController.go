package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StaffController manages staff records.
type StaffController struct {
	staff *mongo.Collection
	users *mongo.Collection
}

func NewStaffController(staff, users *mongo.Collection) *StaffController {
	return &StaffController{staff: staff, users: users}
}

func staffIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetAllStaff returns every staff member
func (sc *StaffController) GetAllStaff(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	cursor, err := sc.staff.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		return
	}
	defer cursor.Close(ctx)

	staff := []models.Staff{}
	if err := cursor.All(ctx, &staff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

// CreateStaff adds a staff member. Emails are unique.
func (sc *StaffController) CreateStaff(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required,max=50"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone" binding:"max=20"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := sc.staff.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Staff member with this email already exists"})
		return
	}

	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      "staff",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := sc.staff.InsertOne(ctx, staff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff"})
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// GetStaff returns a single staff member by ID
func (sc *StaffController) GetStaff(c *gin.Context) {
	id, ok := staffIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var staff models.Staff
	err := sc.staff.FindOne(ctx, bson.M{"_id": id}).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

// GetStaffByEmail returns a single staff member by email
func (sc *StaffController) GetStaffByEmail(c *gin.Context) {
	email := c.Param("email")

	ctx, cancel := requestContext(c)
	defer cancel()

	var staff models.Staff
	err := sc.staff.FindOne(ctx, bson.M{"email": email}).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (sc *StaffController) applyStaffUpdate(c *gin.Context, id primitive.ObjectID, set bson.M) {
	ctx, cancel := requestContext(c)
	defer cancel()

	set["updatedAt"] = time.Now()
	res, err := sc.staff.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully"})
}

// UpdateStaff applies an admin edit to a staff record
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	id, ok := staffIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}

	sc.applyStaffUpdate(c, id, set)
}

// UpdateStaffProfile is the self-service profile edit: name and phone only.
func (sc *StaffController) UpdateStaffProfile(c *gin.Context) {
	id, ok := staffIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}

	sc.applyStaffUpdate(c, id, set)
}

// DeleteStaff removes a staff record
func (sc *StaffController) DeleteStaff(c *gin.Context) {
	id, ok := staffIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := sc.staff.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete staff"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}

// CreateStaffFromUser promotes an existing user account to a staff record,
// keeping a link back to the originating user.
func (sc *StaffController) CreateStaffFromUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var user models.User
	err = sc.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	count, err := sc.staff.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Staff member with this email already exists"})
		return
	}

	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      "staff",
		UserID:    user.ID.Hex(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := sc.staff.InsertOne(ctx, staff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff"})
		return
	}

	c.JSON(http.StatusCreated, staff)
}
