package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	EmployeeID *string `json:"employee_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		EmployeeID: u.EmployeeID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
	}
}
