package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Service deletion is disabled as a business rule, so even superadmin
// is refused and the row survives.
func TestDeleteServiceAlwaysRefused(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.DB = newHandlerTestDB(t)

	customer := models.Customer{
		CreatedByUserID: uuid.New(),
		Name:            "Asha Nair",
		Phone:           "+919812345678",
		IsActive:        true,
	}
	require.NoError(t, config.DB.Create(&customer).Error)

	service := models.Service{
		CustomerID:    customer.ID,
		ServiceType:   models.ServiceTypePaid,
		ScheduledDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:        models.ServiceStatusScheduled,
	}
	require.NoError(t, config.DB.Create(&service).Error)

	r := gin.New()
	r.DELETE("/services/:id", asRole("superadmin", DeleteService))

	req := httptest.NewRequest(http.MethodDelete, "/services/"+service.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	config.DB.Model(&models.Service{}).Where("id = ?", service.ID).Count(&count)
	require.EqualValues(t, 1, count)
}
