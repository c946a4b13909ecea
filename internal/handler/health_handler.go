package handler

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports service liveness and datastore reachability.
type HealthHandler struct {
	serviceName string
	mongoClient *mongo.Client
}

func NewHealthHandler(serviceName string, mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, mongoClient: mongoClient}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Mongo   string `json:"mongo"`
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Service: h.serviceName, Mongo: "up"}
	status := http.StatusOK
	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		resp.Status = "degraded"
		resp.Mongo = "down"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
