package mongo

import "github.com/ghuser/productstore/pkg/migrator"

// Indexes backs the products collection. The unique id index is what turns a
// repeated insert into a duplicate-key error.
var Indexes = []migrator.Index{
	{Name: "products_id_unique", Field: "id", Unique: true},
	{Name: "products_price", Field: "price"},
}
