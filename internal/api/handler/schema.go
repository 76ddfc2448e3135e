package handler

import "github.com/sirpyerre/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Login only checks presence; a short wrong password must still reach the
// credential check and fail as "invalid credentials".
type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Banned    bool        `json:"banned"`
	CreatedAt string      `json:"created_at"`
}

// --- Users ---

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

// --- Products ---

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Quantity    int     `json:"quantity"    validate:"gte=0"`
}

// updateProductRequest uses pointers so absent fields are left untouched.
type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity"    validate:"omitempty,gte=0"`
	Approved    *bool    `json:"approved"`
}

type productResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Approved    bool    `json:"approved"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
