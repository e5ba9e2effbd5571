package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingKey    string
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingKey:    "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			settingKey:    "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingKey:    "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:       "successful get",
			dbParam:    db,
			settingKey: "site_name",
			seedData: []models.Setting{
				{Key: "site_name", Value: "CLMK"},
			},
			expectedValue: "CLMK",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.settingKey)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingKey, setting.Key)
				assert.Equal(t, tc.expectedValue, setting.Value)
			}
		})
	}
}

func TestGetAllAndAssets(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetAll(nil)
	require.ErrorIs(t, err, ErrDBNil)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, all)

	seedSettings(t, db, []models.Setting{
		{Key: "site_name", Value: "CLMK"},
		{Key: "contact_email", Value: "contact@clmk.fr"},
		{Key: "logo", Value: "settings/logo.png", IsAsset: true},
	})

	all, err = GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "contact_email", all[0].Key, "ordered by key")
	assert.Equal(t, "site_name", all[2].Key)

	m, err := Assets(db)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"logo": "settings/logo.png"}, m)

	_, err = Assets(nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		value         string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:    "setting already exists",
			dbParam: db,
			key:     "site_name",
			value:   "Other",
			seedData: []models.Setting{
				{Key: "site_name", Value: "CLMK"},
			},
			expectedError: ErrSettingAlreadyExists,
		},
		{
			name:    "successful create",
			dbParam: db,
			key:     "phone",
			value:   "+33 1 23 45 67 89",
		},
		{
			name:    "empty value allowed",
			dbParam: db,
			key:     "facebook_url",
			value:   "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Create(tc.dbParam, tc.key, tc.value, false)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, setting.ID)
			assert.Equal(t, tc.key, setting.Key)
			assert.Equal(t, tc.value, setting.Value)
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := Set(nil, "k", "v", false)
	require.ErrorIs(t, err, ErrDBNil)

	_, _, err = Set(db, "", "v", false)
	require.ErrorIs(t, err, ErrSettingKeyEmpty)

	s, created, err := Set(db, "logo", "settings/a.png", true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, s.IsAsset)

	s2, created, err := Set(db, "logo", "settings/b.png", true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.ID, s2.ID)

	got, err := Get(db, "logo")
	require.NoError(t, err)
	assert.Equal(t, "settings/b.png", got.Value)

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert keeps one row per key")
}
