package dummydb

import (
	"sync"

	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/catalog"
	"github.com/shuletech/udahili/core/user"
)

type (
	// DB is an in-memory store for tests and local development.
	DB struct {
		application *applicationTable
		template    *templateTable
		user        *userTable
	}

	applicationTable struct {
		sync.RWMutex
		table map[string]*admission.Application
	}

	templateTable struct {
		sync.RWMutex
		table map[string]*catalog.FeeTemplate
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		application: &applicationTable{table: make(map[string]*admission.Application)},
		template:    &templateTable{table: make(map[string]*catalog.FeeTemplate)},
		user:        &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}
