package request

type LoginRequest struct {
	CounterCode string `json:"counterCode" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

type CounterRequest struct {
	CounterCode string `json:"counterCode" validate:"required,min=2,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,oneof=counter admin"`
}
