// Package model defines the documents persisted by the store drivers and
// the shapes they take on the wire.
package model

// Owner is embedded by every per-user document. Both fields are stamped by
// the store on create and are never taken from a request body.
type Owner struct {
	ID     string `gorm:"primaryKey;size:16" bson:"_id" json:"id"`
	UserID string `gorm:"index;not null;size:16" bson:"userId" json:"userId"`
}

func (o *Owner) Stamp(id, userID string) {
	o.ID = id
	o.UserID = userID
}

// Document is satisfied by pointers to owned documents. Store drivers use it
// to stamp ownership and handlers use it to apply validated fields.
type Document[T any] interface {
	*T
	Stamp(id, userID string)
	Apply(p Patch)
}
