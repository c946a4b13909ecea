package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// ListingHandler serves the listing lifecycle endpoints. Create and update
// accept either JSON or multipart/form-data; a multipart body may carry a
// photo file under the "photo" field.
type ListingHandler struct {
	listings *usecase.ListingUsecase
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, m *metrics.Manager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		metrics:  m,
		logger:   log.Named("ListingHandler"),
	}
}

type createListingRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	ContactNumber      string  `json:"contactNumber"`
	IsCommunityPosted  bool    `json:"isCommunityPosted"`
	Location           string  `json:"location"`
	State              string  `json:"state"`
	City               string  `json:"city"`
	Area               string  `json:"area"`
	Pincode            string  `json:"pincode"`
	Price              float64 `json:"price"`
	Type               string  `json:"type"`
	ServiceType        string  `json:"serviceType"`
	Availability       string  `json:"availability"`
	RentalDurationUnit string  `json:"rentalDurationUnit"`
	ItemCondition      string  `json:"itemCondition"`
}

type updateListingRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Category           *string  `json:"category"`
	ContactNumber      *string  `json:"contactNumber"`
	IsCommunityPosted  *bool    `json:"isCommunityPosted"`
	Location           *string  `json:"location"`
	State              *string  `json:"state"`
	City               *string  `json:"city"`
	Area               *string  `json:"area"`
	Pincode            *string  `json:"pincode"`
	Price              *float64 `json:"price"`
	Type               *string  `json:"type"`
	ServiceType        *string  `json:"serviceType"`
	Availability       *string  `json:"availability"`
	RentalDurationUnit *string  `json:"rentalDurationUnit"`
	ItemCondition      *string  `json:"itemCondition"`
}

func (req updateListingRequest) toDomain() domain.ListingUpdate {
	upd := domain.ListingUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		ContactNumber:     req.ContactNumber,
		IsCommunityPosted: req.IsCommunityPosted,
		Location:          req.Location,
		State:             req.State,
		City:              req.City,
		Area:              req.Area,
		Pincode:           req.Pincode,
		Price:             req.Price,
		ServiceType:       req.ServiceType,
		Availability:      req.Availability,
		ItemCondition:     req.ItemCondition,
	}
	if req.Type != nil {
		t := domain.ListingType(*req.Type)
		upd.Type = &t
	}
	if req.RentalDurationUnit != nil {
		u := domain.RentalDurationUnit(*req.RentalDurationUnit)
		upd.RentalDurationUnit = &u
	}
	return upd
}

// Search handles GET /api/listings.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListingFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Type:     q.Get("type"),
		City:     q.Get("city"),
		Area:     q.Get("area"),
		Pincode:  q.Get("pincode"),
		Page:     parseInt64Param(q.Get("page")),
		Limit:    parseInt64Param(q.Get("limit")),
	}

	result, err := h.listings.SearchListings(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.search", err)
		return
	}
	respondJSON(w, http.StatusOK, toSearchResponse(result))
}

// GetByID handles GET /api/listings/{id}.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.get", err)
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

// Create handles POST /api/listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseCreateInput(r)
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.create", err)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), actorFromRequest(r), input)
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.create", err)
		return
	}

	h.metrics.ListingsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, toListingResponse(listing))
}

// Update handles PUT /api/listings/{id}.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	upd, photo, err := h.parseUpdateInput(r)
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.update", err)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), upd, photo)
	if err != nil {
		respondError(w, h.logger, h.metrics, "listings.update", err)
		return
	}

	h.metrics.ListingUpdatesTotal.Inc()
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

// Delete handles DELETE /api/listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.DeleteListing(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, h.metrics, "listings.delete", err)
		return
	}
	h.metrics.ListingDeletesTotal.Inc()
	respondJSON(w, http.StatusOK, messageResponse{Message: "Listing deleted"})
}

func (h *ListingHandler) parseCreateInput(r *http.Request) (usecase.CreateListingInput, error) {
	var input usecase.CreateListingInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return input, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrInvalidInput, err)
		}
		input = usecase.CreateListingInput{
			Title:              r.FormValue("title"),
			Description:        r.FormValue("description"),
			Category:           r.FormValue("category"),
			ContactNumber:      r.FormValue("contactNumber"),
			IsCommunityPosted:  parseFormBool(r.FormValue("isCommunityPosted")),
			Location:           r.FormValue("location"),
			State:              r.FormValue("state"),
			City:               r.FormValue("city"),
			Area:               r.FormValue("area"),
			Pincode:            r.FormValue("pincode"),
			Type:               domain.ListingType(r.FormValue("type")),
			ServiceType:        r.FormValue("serviceType"),
			Availability:       r.FormValue("availability"),
			RentalDurationUnit: domain.RentalDurationUnit(r.FormValue("rentalDurationUnit")),
			ItemCondition:      r.FormValue("itemCondition"),
		}
		if v := r.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return input, fmt.Errorf("%w: price must be a number", domain.ErrInvalidInput)
			}
			input.Price = price
		}
		photo, err := readPhoto(r)
		if err != nil {
			return input, err
		}
		input.Photo = photo
		return input, nil
	}

	var req createListingRequest
	if err := decodeStrict(r, &req); err != nil {
		return input, err
	}
	return usecase.CreateListingInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		ContactNumber:      req.ContactNumber,
		IsCommunityPosted:  req.IsCommunityPosted,
		Location:           req.Location,
		State:              req.State,
		City:               req.City,
		Area:               req.Area,
		Pincode:            req.Pincode,
		Price:              req.Price,
		Type:               domain.ListingType(req.Type),
		ServiceType:        req.ServiceType,
		Availability:       req.Availability,
		RentalDurationUnit: domain.RentalDurationUnit(req.RentalDurationUnit),
		ItemCondition:      req.ItemCondition,
	}, nil
}

func (h *ListingHandler) parseUpdateInput(r *http.Request) (domain.ListingUpdate, *usecase.PhotoUpload, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return domain.ListingUpdate{}, nil, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrInvalidInput, err)
		}

		// Only fields present in the form end up in the update; absent
		// fields keep their stored value.
		form := r.MultipartForm.Value
		var upd domain.ListingUpdate
		if v, ok := formField(form, "title"); ok {
			upd.Title = &v
		}
		if v, ok := formField(form, "description"); ok {
			upd.Description = &v
		}
		if v, ok := formField(form, "category"); ok {
			upd.Category = &v
		}
		if v, ok := formField(form, "contactNumber"); ok {
			upd.ContactNumber = &v
		}
		if v, ok := formField(form, "isCommunityPosted"); ok {
			b := parseFormBool(v)
			upd.IsCommunityPosted = &b
		}
		if v, ok := formField(form, "location"); ok {
			upd.Location = &v
		}
		if v, ok := formField(form, "state"); ok {
			upd.State = &v
		}
		if v, ok := formField(form, "city"); ok {
			upd.City = &v
		}
		if v, ok := formField(form, "area"); ok {
			upd.Area = &v
		}
		if v, ok := formField(form, "pincode"); ok {
			upd.Pincode = &v
		}
		if v, ok := formField(form, "price"); ok {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return domain.ListingUpdate{}, nil, fmt.Errorf("%w: price must be a number", domain.ErrInvalidInput)
			}
			upd.Price = &price
		}
		if v, ok := formField(form, "type"); ok {
			t := domain.ListingType(v)
			upd.Type = &t
		}
		if v, ok := formField(form, "serviceType"); ok {
			upd.ServiceType = &v
		}
		if v, ok := formField(form, "availability"); ok {
			upd.Availability = &v
		}
		if v, ok := formField(form, "rentalDurationUnit"); ok {
			u := domain.RentalDurationUnit(v)
			upd.RentalDurationUnit = &u
		}
		if v, ok := formField(form, "itemCondition"); ok {
			upd.ItemCondition = &v
		}

		photo, err := readPhoto(r)
		if err != nil {
			return domain.ListingUpdate{}, nil, err
		}
		return upd, photo, nil
	}

	var req updateListingRequest
	if err := decodeStrict(r, &req); err != nil {
		return domain.ListingUpdate{}, nil, err
	}
	return req.toDomain(), nil, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formField(form map[string][]string, key string) (string, bool) {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// parseFormBool mirrors the checkbox semantics of the web form: the exact
// string "true" is true, anything else is false.
func parseFormBool(v string) bool {
	return v == "true"
}

func parseInt64Param(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func readPhoto(r *http.Request) (*usecase.PhotoUpload, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid photo upload: %v", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: could not read photo upload: %v", domain.ErrInvalidInput, err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("%w: photo exceeds the %d byte limit", domain.ErrInvalidInput, maxUploadBytes)
	}
	return &usecase.PhotoUpload{FileName: header.Filename, Data: data}, nil
}
