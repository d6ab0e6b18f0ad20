package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wak-lab-e-v/jw-db-manager/models"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/imgproc"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	eventDateRE = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	eventTimeRE = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	r.GET("/statuses", listStatusesHandler)
	r.GET("/registrations", listRegistrationsHandler)
	r.GET("/registrations/:id", getRegistrationHandler)
	r.GET("/registrations/:id/files/:name", serveFileHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.PUT("/registrations/:id", updateRegistrationHandler)
	authGroup.DELETE("/registrations/:id/files/:name", deleteFileHandler)
	authGroup.POST("/registrations/:id/caption", captionHandler)
	authGroup.POST("/registrations/:id/rotate", rotateHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken resolves the role name from RoleID and issues a signed HS256 token.
func signAccessToken(user models.User, ttl time.Duration) (string, error) {
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := signAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func listStatusesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statuses": cfg.StatusOptions})
}

// listRegistrationsHandler returns registrations with optional filters:
// q (order/surname/given name/note), status, event_date, event_time and
// has_images (yes/no, whether a work directory is set).
func listRegistrationsHandler(c *gin.Context) {
	q := db.Model(&models.Registration{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("order_number ILIKE ? OR surname ILIKE ? OR given_name ILIKE ? OR note ILIKE ?",
			like, like, like, like)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if s := c.Query("event_date"); s != "" {
		q = q.Where("event_date = ?", s)
	}
	if s := c.Query("event_time"); s != "" {
		q = q.Where("event_time = ?", s)
	}
	switch c.Query("has_images") {
	case "yes":
		q = q.Where("work_dir <> ''")
	case "no":
		q = q.Where("work_dir = '' OR work_dir IS NULL")
	}

	var regs []models.Registration
	if err := q.Order("event_date, event_time, surname").Limit(500).Find(&regs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, regs)
}

func findRegistration(c *gin.Context) (*models.Registration, bool) {
	var reg models.Registration
	if err := db.First(&reg, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return nil, false
	}
	return &reg, true
}

// getRegistrationHandler returns one registration plus a listing of its work
// directory files with size and, where decodable, pixel dimensions.
func getRegistrationHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"registration": reg, "files": listWorkDirFiles(reg)})
}

func listWorkDirFiles(reg *models.Registration) []gin.H {
	files := []gin.H{}
	if reg.WorkDir == "" {
		return files
	}
	entries, err := os.ReadDir(reg.WorkDir)
	if err != nil {
		return files
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := gin.H{"name": e.Name(), "size": info.Size()}
		if f, err := os.Open(filepath.Join(reg.WorkDir, e.Name())); err == nil {
			if conf, _, err := image.DecodeConfig(f); err == nil {
				entry["width"] = conf.Width
				entry["height"] = conf.Height
			}
			f.Close()
		}
		files = append(files, entry)
	}
	return files
}

// validateFinalPictures rejects duplicate assignments among the set slots.
func validateFinalPictures(p1, p2, p3 string) error {
	seen := map[string]bool{}
	for _, p := range []string{p1, p2, p3} {
		if p == "" {
			continue
		}
		if seen[p] {
			return fmt.Errorf("final picture %q assigned to more than one slot", p)
		}
		seen[p] = true
	}
	return nil
}

// updateRegistrationHandler edits the operator-facing fields. Validation
// failures return 422 and nothing is persisted.
func updateRegistrationHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	var req struct {
		EventDate     *string `json:"event_date"`
		EventTime     *string `json:"event_time"`
		Location      *string `json:"location"`
		Note          *string `json:"note"`
		Status        *string `json:"status"`
		FinalPicture1 *string `json:"final_picture_1"`
		FinalPicture2 *string `json:"final_picture_2"`
		FinalPicture3 *string `json:"final_picture_3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.EventDate != nil {
		if *req.EventDate != "" && !eventDateRE.MatchString(*req.EventDate) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "event_date must be DD.MM.YYYY"})
			return
		}
		updates["event_date"] = *req.EventDate
	}
	if req.EventTime != nil {
		if *req.EventTime != "" && !eventTimeRE.MatchString(*req.EventTime) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "event_time must be HH-MM"})
			return
		}
		updates["event_time"] = *req.EventTime
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown status"})
			return
		}
		updates["status"] = *req.Status
	}

	p1, p2, p3 := reg.FinalPicture1, reg.FinalPicture2, reg.FinalPicture3
	if req.FinalPicture1 != nil {
		p1 = *req.FinalPicture1
		updates["final_picture1"] = p1
	}
	if req.FinalPicture2 != nil {
		p2 = *req.FinalPicture2
		updates["final_picture2"] = p2
	}
	if req.FinalPicture3 != nil {
		p3 = *req.FinalPicture3
		updates["final_picture3"] = p3
	}
	if err := validateFinalPictures(p1, p2, p3); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, reg)
		return
	}
	if err := db.Model(reg).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, reg)
}

func validStatus(s string) bool {
	for _, opt := range cfg.StatusOptions {
		if s == opt {
			return true
		}
	}
	return false
}

// workDirFile resolves a file name inside the registration's work directory,
// rejecting anything that would escape it.
func workDirFile(c *gin.Context, reg *models.Registration, name string) (string, bool) {
	if reg.WorkDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no work directory"})
		return "", false
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return "", false
	}
	path := filepath.Join(reg.WorkDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return "", false
	}
	return path, true
}

func serveFileHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	path, ok := workDirFile(c, reg, c.Param("name"))
	if !ok {
		return
	}
	c.File(path)
}

func deleteFileHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	path, ok := workDirFile(c, reg, c.Param("name"))
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// captionHandler renders a captioned Full HD cover of a work-dir image. The
// text defaults to the registrant's name.
func captionHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	var req struct {
		File string `json:"file" binding:"required"`
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src, ok := workDirFile(c, reg, req.File)
	if !ok {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = reg.GivenName + " " + reg.Surname
	}
	outName := "cover_" + req.File
	if err := imgproc.Caption(src, filepath.Join(reg.WorkDir, outName), text); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": outName})
}

// rotateHandler rotates a work-dir image in place by a right-angle multiple.
func rotateHandler(c *gin.Context) {
	reg, ok := findRegistration(c)
	if !ok {
		return
	}
	var req struct {
		File  string `json:"file" binding:"required"`
		Angle int    `json:"angle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, ok := workDirFile(c, reg, req.File)
	if !ok {
		return
	}
	if req.Angle == 0 {
		// no explicit angle: apply what the EXIF orientation calls for
		if err := imgproc.AutoRotateFile(path, path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else if err := imgproc.RotateFile(path, path, req.Angle); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rotated"})
}
