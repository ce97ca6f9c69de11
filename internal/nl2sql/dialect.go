package nl2sql

import (
	"fmt"
	"strings"
)

type Dialect string

const (
	DialectDuckDB   Dialect = "duckdb"
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(value string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(value))) {
	case "", DialectDuckDB:
		return DialectDuckDB, nil
	case DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres, "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", value)
	}
}

type dialectGuide struct {
	label    string
	examples string
	rules    string
}

func guideFor(d Dialect) dialectGuide {
	switch d {
	case DialectSQLite:
		return sqliteGuide
	case DialectPostgres:
		return postgresGuide
	default:
		return duckdbGuide
	}
}

var sqliteGuide = dialectGuide{
	label: "SQLite",
	examples: `1. "Show all active assets at New York site":
   SELECT a.AssetTag, a.AssetName, a.Status, s.SiteName
   FROM Assets a
   JOIN Sites s ON a.SiteId = s.SiteId
   WHERE a.Status = 'Active' AND s.City = 'New York';

2. "What is the total value of assets by category":
   SELECT Category, COUNT(*) as AssetCount, SUM(Cost) as TotalValue
   FROM Assets
   GROUP BY Category;

3. "Show recent purchase orders with vendor details":
   SELECT po.PONumber, po.PODate, v.VendorName, po.Status
   FROM PurchaseOrders po
   JOIN Vendors v ON po.VendorId = v.VendorId
   ORDER BY po.PODate DESC
   LIMIT 10;

4. "Find orders from last month" (SQLite date functions):
   SELECT COUNT(*) as OrderCount
   FROM SalesOrders
   WHERE DATE(SODate) >= DATE('now', 'start of month', '-1 month')
   AND DATE(SODate) < DATE('now', 'start of month');

5. "Get data from specific date range":
   SELECT * FROM Assets
   WHERE DATE(PurchaseDate) BETWEEN '2024-01-01' AND '2024-12-31';

6. "How many sales orders for each customer last month":
   SELECT c.CustomerName, COUNT(so.SOId) as OrderCount
   FROM Customers c
   LEFT JOIN SalesOrders so ON c.CustomerId = so.CustomerId
   AND DATE(so.SODate) >= DATE('now', 'start of month', '-1 month')
   AND DATE(so.SODate) < DATE('now', 'start of month')
   GROUP BY c.CustomerId, c.CustomerName
   ORDER BY OrderCount DESC;`,
	rules: `1. Use SQLite date/time functions, NOT MySQL/PostgreSQL syntax
2. For date calculations, use: DATE('now', 'start of month', '-1 month') instead of INTERVAL
3. For extracting parts: strftime('%m', date_column) instead of MONTH(date_column)
4. For current date: DATE('now') instead of CURRENT_DATE
5. Use DATE() function to compare dates: DATE(column) = 'YYYY-MM-DD'
6. Use standard SQL syntax compatible with SQLite`,
}

var duckdbGuide = dialectGuide{
	label: "DuckDB",
	examples: `1. "Show all active assets at New York site":
   SELECT a.AssetTag, a.AssetName, a.Status, s.SiteName
   FROM Assets a
   JOIN Sites s ON a.SiteId = s.SiteId
   WHERE a.Status = 'Active' AND s.City = 'New York';

2. "What is the total value of assets by category":
   SELECT Category, COUNT(*) AS AssetCount, SUM(Cost) AS TotalValue
   FROM Assets
   GROUP BY Category;

3. "Show recent purchase orders with vendor details":
   SELECT po.PONumber, po.PODate, v.VendorName, po.Status
   FROM PurchaseOrders po
   JOIN Vendors v ON po.VendorId = v.VendorId
   ORDER BY po.PODate DESC
   LIMIT 10;

4. "Find orders from last month" (DuckDB date functions):
   SELECT COUNT(*) AS OrderCount
   FROM SalesOrders
   WHERE CAST(SODate AS DATE) >= date_trunc('month', current_date) - INTERVAL 1 MONTH
   AND CAST(SODate AS DATE) < date_trunc('month', current_date);

5. "Get data from specific date range":
   SELECT * FROM Assets
   WHERE CAST(PurchaseDate AS DATE) BETWEEN DATE '2024-01-01' AND DATE '2024-12-31';

6. "How many sales orders for each customer last month":
   SELECT c.CustomerName, COUNT(so.SOId) AS OrderCount
   FROM Customers c
   LEFT JOIN SalesOrders so ON c.CustomerId = so.CustomerId
   AND CAST(so.SODate AS DATE) >= date_trunc('month', current_date) - INTERVAL 1 MONTH
   AND CAST(so.SODate AS DATE) < date_trunc('month', current_date)
   GROUP BY c.CustomerId, c.CustomerName
   ORDER BY OrderCount DESC;`,
	rules: `1. Use DuckDB date/time functions, NOT MySQL or SQLite syntax
2. For date calculations, use: date_trunc('month', current_date) - INTERVAL 1 MONTH
3. For extracting parts: month(date_column) or date_part('month', date_column)
4. For current date: current_date
5. Cast text dates before comparing: CAST(column AS DATE) = DATE 'YYYY-MM-DD'
6. Use standard SQL syntax compatible with DuckDB`,
}

var postgresGuide = dialectGuide{
	label: "PostgreSQL",
	examples: `1. "Show all active assets at New York site":
   SELECT a."AssetTag", a."AssetName", a."Status", s."SiteName"
   FROM "Assets" a
   JOIN "Sites" s ON a."SiteId" = s."SiteId"
   WHERE a."Status" = 'Active' AND s."City" = 'New York';

2. "What is the total value of assets by category":
   SELECT "Category", COUNT(*) AS "AssetCount", SUM("Cost") AS "TotalValue"
   FROM "Assets"
   GROUP BY "Category";

3. "Show recent purchase orders with vendor details":
   SELECT po."PONumber", po."PODate", v."VendorName", po."Status"
   FROM "PurchaseOrders" po
   JOIN "Vendors" v ON po."VendorId" = v."VendorId"
   ORDER BY po."PODate" DESC
   LIMIT 10;

4. "Find orders from last month" (PostgreSQL date functions):
   SELECT COUNT(*) AS "OrderCount"
   FROM "SalesOrders"
   WHERE "SODate"::date >= date_trunc('month', current_date) - INTERVAL '1 month'
   AND "SODate"::date < date_trunc('month', current_date);

5. "Get data from specific date range":
   SELECT * FROM "Assets"
   WHERE "PurchaseDate"::date BETWEEN DATE '2024-01-01' AND DATE '2024-12-31';

6. "How many sales orders for each customer last month":
   SELECT c."CustomerName", COUNT(so."SOId") AS "OrderCount"
   FROM "Customers" c
   LEFT JOIN "SalesOrders" so ON c."CustomerId" = so."CustomerId"
   AND so."SODate"::date >= date_trunc('month', current_date) - INTERVAL '1 month'
   AND so."SODate"::date < date_trunc('month', current_date)
   GROUP BY c."CustomerId", c."CustomerName"
   ORDER BY "OrderCount" DESC;`,
	rules: `1. Table and column names are case-sensitive: always wrap them in double quotes ("Assets"."AssetTag")
2. For date calculations, use: date_trunc('month', current_date) - INTERVAL '1 month'
3. For extracting parts: EXTRACT(MONTH FROM date_column)
4. For current date: current_date
5. Cast text dates before comparing: column::date = DATE 'YYYY-MM-DD'
6. Use standard SQL syntax compatible with PostgreSQL`,
}
