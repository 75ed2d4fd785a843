package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestAuditLog_BeforeCreate(t *testing.T) {
	t.Run("generates UUID and timestamp if not set", func(t *testing.T) {
		entry := &AuditLog{}
		if err := entry.BeforeCreate(nil); err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if entry.ID == uuid.Nil {
			t.Error("expected ID to be generated, got nil UUID")
		}
		if entry.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("preserves existing UUID", func(t *testing.T) {
		existingID := uuid.New()
		entry := &AuditLog{ID: existingID}
		if err := entry.BeforeCreate(nil); err != nil {
			t.Fatalf("BeforeCreate returned error: %v", err)
		}
		if entry.ID != existingID {
			t.Errorf("expected ID to remain %s, got %s", existingID, entry.ID)
		}
	})
}

func TestParseAssetType(t *testing.T) {
	tests := []struct {
		input  string
		want   AssetType
		wantOK bool
	}{
		{"", AssetTypePrivate, true},
		{"private", AssetTypePrivate, true},
		{"public", AssetTypePublic, true},
		{"Public", "", false},
		{"shared", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAssetType(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseAssetType(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAsset_IsPublic(t *testing.T) {
	if !(&Asset{Type: AssetTypePublic}).IsPublic() {
		t.Error("expected public asset to report public")
	}
	if (&Asset{Type: AssetTypePrivate}).IsPublic() {
		t.Error("expected private asset to report private")
	}
}

func TestTableNames(t *testing.T) {
	if (AuditLog{}).TableName() != "audit_logs" {
		t.Errorf("unexpected audit table %s", AuditLog{}.TableName())
	}
	if (AuditExportCursor{}).TableName() != "audit_export_cursors" {
		t.Errorf("unexpected cursor table %s", AuditExportCursor{}.TableName())
	}
}

func TestJSONHidesInternalFields(t *testing.T) {
	data, err := json.Marshal(Asset{ID: 1, OwnerID: 2, Name: "a.jpg", State: AssetStatePending, Type: AssetTypePublic})
	if err != nil {
		t.Fatalf("marshal asset: %v", err)
	}
	var asset map[string]interface{}
	_ = json.Unmarshal(data, &asset)
	for _, key := range []string{"State", "state", "Owner", "CreatedAt"} {
		if _, ok := asset[key]; ok {
			t.Errorf("asset JSON must not contain %s: %s", key, data)
		}
	}
	if asset["assetid"] != float64(1) || asset["assettype"] != "public" {
		t.Errorf("unexpected asset JSON %s", data)
	}

	data, err = json.Marshal(User{ID: 1, Username: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	var user map[string]interface{}
	_ = json.Unmarshal(data, &user)
	if _, ok := user["PasswordHash"]; ok {
		t.Errorf("user JSON must not contain the password hash: %s", data)
	}
}
