package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "mysql default",
			cfg: config.Config{
				DB: config.DB{
					GormEngine: "mysql",
					Host:       "localhost",
					Port:       3306,
					User:       "medicms",
					Password:   "secret",
					Name:       "medicms",
					Extras:     "charset=utf8mb4&parseTime=True&loc=Local",
				},
			},
			want: "medicms:secret@tcp(localhost:3306)/medicms?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			name: "postgres",
			cfg: config.Config{
				DB: config.DB{
					GormEngine: "postgres",
					Host:       "localhost",
					Port:       5432,
					User:       "medicms",
					Password:   "secret",
					Name:       "medicms",
					Extras:     "sslmode=disable",
				},
			},
			want: "host=localhost port=5432 user=medicms password=secret dbname=medicms sslmode=disable",
		},
		{
			name: "sqlite uses name as path",
			cfg: config.Config{
				DB: config.DB{
					GormEngine: "sqlite",
					Name:       "file::memory:?cache=shared",
				},
			},
			want: "file::memory:?cache=shared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsn.Create(&tt.cfg))
		})
	}
}
