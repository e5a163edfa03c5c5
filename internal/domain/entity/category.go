package entity

// Category is immutable reference data; nothing in this service creates or
// mutates categories at runtime.
type Category struct {
	ID   string `bson:"_id,omitempty" json:"id"`
	Name string `bson:"name" json:"name"`
}
