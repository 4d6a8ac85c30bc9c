package validator_test

import (
	"hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

type stayRequest struct {
	GuestName string   `json:"guest_name" validate:"required,max=100"`
	Email     string   `json:"email"      validate:"omitempty,email"`
	Nights    int      `json:"nights"     validate:"gte=1,lte=60"`
	RoomType  string   `json:"room_type"  validate:"omitempty,oneof=Single Double Suite"`
	CheckIn   dto.Date `json:"check_in"   validate:"required,app"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        stayRequest
		expectError bool
	}{
		{
			name:        "valid struct",
			data:        stayRequest{GuestName: "Asha", Email: "asha@example.com", Nights: 3, RoomType: "Suite", CheckIn: "2024-06-10"},
			expectError: false,
		},
		{
			name:        "missing guest name",
			data:        stayRequest{Nights: 3, CheckIn: "2024-06-10"},
			expectError: true,
		},
		{
			name:        "invalid email",
			data:        stayRequest{GuestName: "Asha", Email: "asha", Nights: 3, CheckIn: "2024-06-10"},
			expectError: true,
		},
		{
			name:        "nights out of range",
			data:        stayRequest{GuestName: "Asha", Nights: 0, CheckIn: "2024-06-10"},
			expectError: true,
		},
		{
			name:        "unknown room type",
			data:        stayRequest{GuestName: "Asha", Nights: 3, RoomType: "Penthouse", CheckIn: "2024-06-10"},
			expectError: true,
		},
		{
			name:        "date in wrong layout fails the app tag",
			data:        stayRequest{GuestName: "Asha", Nights: 3, CheckIn: "10/06/2024"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}

			if err != nil && !failure.HasReason(err, failure.ReasonValidation) {
				t.Errorf("expected validation reason, got %q", failure.GetReason(err))
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "101", tag: "required", expectError: false},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "positive price", field: 1500.0, tag: "gt=0", expectError: false},
		{name: "zero price", field: 0.0, tag: "gt=0", expectError: true},
		{name: "valid status", field: "Confirmed", tag: "oneof=Requested Confirmed Active Completed Rejected", expectError: false},
		{name: "invalid status", field: "Cancelled", tag: "oneof=Requested Confirmed Active Completed Rejected", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"guest_name":"Asha","nights":2,"check_in":"2024-06-10"}`,
			expectError: false,
		},
		{
			name:        "invalid date",
			jsonBody:    `{"guest_name":"Asha","nights":2,"check_in":"2024-13-40"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"guest_name":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data stayRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	err := validator.ValidateStruct(&stayRequest{Nights: 1, CheckIn: "2024-06-10"})
	if err == nil {
		t.Fatal("expected validation error for missing guest name")
	}

	if err.Error() != "guest_name is required" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

type photoRequest struct {
	Photo *multipart.FileHeader `json:"photo" validate:"omitempty,mimetypes=image/png image/jpeg,maxfilesize=2"`
}

func TestValidateStruct_Photo(t *testing.T) {
	part := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "room.png",
			Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
			Size:     size,
		}
	}

	tests := []struct {
		name    string
		photo   *multipart.FileHeader
		message string
	}{
		{name: "no photo"},
		{name: "small png", photo: part("image/png", 512*1024)},
		{name: "gif rejected", photo: part("image/gif", 1024), message: "photo must be one of image/png image/jpeg"},
		{name: "too large", photo: part("image/jpeg", 3<<20), message: "photo must not exceed 2 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&photoRequest{Photo: tt.photo})

			if tt.message == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil || err.Error() != tt.message {
				t.Errorf("expected %q, got %v", tt.message, err)
			}
		})
	}
}
