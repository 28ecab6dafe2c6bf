// Package mapping provides the YAML mapping file: entity marks, per type pair
// member overrides and engine options.
//
// # Schema Overview
//
//	version: "1"
//	options:
//	  update: skip_zero            # or overwrite (default)
//	  conversions: [safe_number, text_number]
//	  auto_match: true
//	  min_name_score: 0.8
//	entities:
//	  - type: warehouse.Customer   # "alias.Name" or "import/path.Name"
//	    keys: ID
//	  - type: warehouse.OrderLine
//	    keys: [OrderID, LineNo]
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    # source member -> target member (highest priority)
//	    121:
//	      OrderNumber: Number
//	    # target member <- source path, nested source members allowed
//	    fields:
//	      - target: CustomerEmail
//	        source: Customer.Email
//	    # target members left untouched
//	    ignore: [InternalNote]
//	    # entity members resolved by key only / owned by the parent
//	    associated: [Customer]
//	    owned: [Lines]
//
// # Priority Order
//
// When a target member is bound to a source member, rules apply in this order:
//  1. "121" shorthand mappings (highest)
//  2. "fields" explicit mappings
//  3. "ignore" list
//  4. struct tags, equal names and auto-matched names (lowest)
package mapping
