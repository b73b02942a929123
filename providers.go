/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package databridge

// The built-in providers register themselves on import. Heavier backends
// (postgres, redis, dynamodb) are not pulled in by default; hosts import
// them for the side effect:
//
//	import _ "github.com/suparena/databridge/database/postgres"
import (
	_ "github.com/suparena/databridge/database/mapdb"
	_ "github.com/suparena/databridge/database/mysql"
	_ "github.com/suparena/databridge/database/sqlite"
)
