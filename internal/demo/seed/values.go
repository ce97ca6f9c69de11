package seed

var customerSeeds = [][7]string{
	{"CUST001", "Tech Solutions Inc", "contact@techsolutions.com", "+1-555-0101", "123 Tech St", "San Francisco", "USA"},
	{"CUST002", "Global Manufacturing", "orders@globalmanuf.com", "+1-555-0102", "456 Industrial Ave", "Chicago", "USA"},
	{"CUST003", "Healthcare Systems", "procurement@healthsys.com", "+1-555-0103", "789 Medical Blvd", "Boston", "USA"},
	{"CUST004", "Education Corp", "purchasing@educorp.com", "+1-555-0104", "321 Campus Dr", "Austin", "USA"},
	{"CUST005", "Retail Chain Ltd", "supply@retailchain.com", "+1-555-0105", "654 Mall Way", "Denver", "USA"},
	{"CUST006", "Financial Services", "procurement@finservices.com", "+1-555-0106", "888 Bank Plaza", "New York", "USA"},
	{"CUST007", "Logistics Partners", "orders@logpartners.com", "+1-555-0107", "999 Transport Ave", "Memphis", "USA"},
	{"CUST008", "Energy Solutions", "purchasing@energysol.com", "+1-555-0108", "777 Power St", "Houston", "USA"},
	{"CUST009", "Construction Corp", "supply@constructcorp.com", "+1-555-0109", "555 Builder Way", "Phoenix", "USA"},
	{"CUST010", "Media Group", "procurement@mediagroup.com", "+1-555-0110", "333 Studio Blvd", "Los Angeles", "USA"},
	{"CUST011", "Insurance Alliance", "orders@insalliance.com", "+1-555-0111", "222 Coverage Dr", "Hartford", "USA"},
	{"CUST012", "Restaurant Chain", "supply@restaurantchain.com", "+1-555-0112", "111 Food Court", "Miami", "USA"},
	{"CUST013", "Hotel Management", "procurement@hotelmanage.com", "+1-555-0113", "444 Hospitality Ave", "Las Vegas", "USA"},
	{"CUST014", "Software Development", "orders@softdev.com", "+1-555-0114", "666 Code St", "Seattle", "USA"},
	{"CUST015", "Pharmaceutical Inc", "supply@pharma.com", "+1-555-0115", "888 Research Blvd", "San Diego", "USA"},
	{"CUST016", "Automotive Parts", "procurement@autoparts.com", "+1-555-0116", "777 Motor Way", "Detroit", "USA"},
	{"CUST017", "Aerospace Systems", "orders@aerospace.com", "+1-555-0117", "999 Aviation Dr", "Orlando", "USA"},
	{"CUST018", "Consulting Group", "supply@consulting.com", "+1-555-0118", "555 Advisory St", "Washington", "USA"},
	{"CUST019", "Fashion Retail", "procurement@fashion.com", "+1-555-0119", "333 Style Ave", "New York", "USA"},
	{"CUST020", "Sports Equipment", "orders@sportsequip.com", "+1-555-0120", "222 Athletic Way", "Portland", "USA"},
	{"CUST021", "Electronics Manufacturer", "supply@electronics.com", "+1-555-0121", "111 Circuit Blvd", "San Jose", "USA"},
	{"CUST022", "Food Distribution", "procurement@fooddist.com", "+1-555-0122", "444 Fresh St", "Kansas City", "USA"},
	{"CUST023", "Chemical Company", "orders@chemco.com", "+1-555-0123", "666 Formula Dr", "Houston", "USA"},
	{"CUST024", "Transportation Inc", "supply@transport.com", "+1-555-0124", "888 Fleet Ave", "Nashville", "USA"},
	{"CUST025", "Mining Operations", "procurement@mining.com", "+1-555-0125", "777 Extract Way", "Salt Lake City", "USA"},
}

var vendorSeeds = [][7]string{
	{"VEND001", "Office Supplies Co", "sales@officesupply.com", "+1-555-0201", "100 Supply St", "New York", "USA"},
	{"VEND002", "Tech Equipment Ltd", "orders@techequip.com", "+1-555-0202", "200 Hardware Ave", "Seattle", "USA"},
	{"VEND003", "Industrial Tools Inc", "sales@indtools.com", "+1-555-0203", "300 Tool Blvd", "Detroit", "USA"},
	{"VEND004", "Medical Devices Corp", "contact@meddevices.com", "+1-555-0204", "400 Medical Way", "Atlanta", "USA"},
	{"VEND005", "Furniture Solutions", "info@furniture.com", "+1-555-0205", "500 Furniture Dr", "Phoenix", "USA"},
	{"VEND006", "Computer Systems Inc", "sales@compsys.com", "+1-555-0206", "600 Technology Rd", "Austin", "USA"},
	{"VEND007", "Safety Equipment Co", "orders@safety.com", "+1-555-0207", "700 Safety Blvd", "Chicago", "USA"},
	{"VEND008", "Network Solutions", "info@netsol.com", "+1-555-0208", "800 Network Ave", "Denver", "USA"},
	{"VEND009", "Printing Services", "sales@printing.com", "+1-555-0209", "900 Print St", "Portland", "USA"},
	{"VEND010", "Electrical Supply", "orders@electrical.com", "+1-555-0210", "1000 Electric Way", "Tampa", "USA"},
	{"VEND011", "Cleaning Supplies", "info@cleaning.com", "+1-555-0211", "1100 Clean Ave", "Minneapolis", "USA"},
	{"VEND012", "Security Systems", "sales@security.com", "+1-555-0212", "1200 Secure Blvd", "Dallas", "USA"},
	{"VEND013", "Vehicle Fleet", "orders@vehiclefleet.com", "+1-555-0213", "1300 Fleet Dr", "Cleveland", "USA"},
	{"VEND014", "Telecommunications", "info@telecom.com", "+1-555-0214", "1400 Comm St", "San Antonio", "USA"},
	{"VEND015", "Manufacturing Parts", "sales@manuparts.com", "+1-555-0215", "1500 Parts Way", "Milwaukee", "USA"},
	{"VEND016", "Laboratory Equipment", "orders@labequip.com", "+1-555-0216", "1600 Lab Ave", "Raleigh", "USA"},
	{"VEND017", "Building Materials", "info@buildmat.com", "+1-555-0217", "1700 Build Blvd", "Oklahoma City", "USA"},
	{"VEND018", "Food Service Equipment", "sales@foodservice.com", "+1-555-0218", "1800 Kitchen Dr", "Louisville", "USA"},
	{"VEND019", "Software Licensing", "orders@softlicense.com", "+1-555-0219", "1900 Software St", "Richmond", "USA"},
	{"VEND020", "Maintenance Supplies", "info@maintenance.com", "+1-555-0220", "2000 Service Ave", "Buffalo", "USA"},
}

var siteSeeds = [][6]string{
	{"SITE001", "Headquarters", "1000 Main St", "New York", "USA", "EST"},
	{"SITE002", "West Coast Office", "2000 Pacific Ave", "Los Angeles", "USA", "PST"},
	{"SITE003", "Manufacturing Plant", "3000 Factory Rd", "Chicago", "USA", "CST"},
	{"SITE004", "Distribution Center", "4000 Warehouse Blvd", "Dallas", "USA", "CST"},
	{"SITE005", "Research Facility", "5000 Innovation Way", "Boston", "USA", "EST"},
	{"SITE006", "Regional Office North", "6000 Business Park Dr", "Seattle", "USA", "PST"},
	{"SITE007", "Regional Office South", "7000 Commerce Blvd", "Atlanta", "USA", "EST"},
	{"SITE008", "Training Center", "8000 Education Ave", "Denver", "USA", "MST"},
	{"SITE009", "Service Center", "9000 Support St", "Phoenix", "USA", "MST"},
	{"SITE010", "Data Center", "10000 Server Way", "Austin", "USA", "CST"},
	{"SITE011", "Quality Control Lab", "11000 Testing Rd", "San Diego", "USA", "PST"},
	{"SITE012", "Customer Support", "12000 Help Desk Ave", "Orlando", "USA", "EST"},
}

var itemSeeds = [][4]string{
	{"ITM001", "Desktop Computer - Intel i7", "Electronics", "Each"},
	{"ITM002", "Office Chair - Ergonomic", "Furniture", "Each"},
	{"ITM003", "Printer Paper - 500 Sheets", "Office Supplies", "Box"},
	{"ITM004", "Network Switch - 24 Port", "Electronics", "Each"},
	{"ITM005", "Conference Table - 12 Person", "Furniture", "Each"},
	{"ITM006", "Laptop Computer - Dell", "Electronics", "Each"},
	{"ITM007", "Filing Cabinet - 4 Drawer", "Furniture", "Each"},
	{"ITM008", "Wireless Router - Enterprise", "Electronics", "Each"},
	{"ITM009", "Monitor 27inch - 4K", "Electronics", "Each"},
	{"ITM010", "Office Desk - Standing", "Furniture", "Each"},
	{"ITM011", "Server Rack - 42U", "Electronics", "Each"},
	{"ITM012", "Projector - HD", "Electronics", "Each"},
	{"ITM013", "Whiteboard - Magnetic", "Office Supplies", "Each"},
	{"ITM014", "UPS Battery Backup", "Electronics", "Each"},
	{"ITM015", "Security Camera - IP", "Electronics", "Each"},
	{"ITM016", "Printer - Laser Color", "Electronics", "Each"},
	{"ITM017", "Scanner - Document", "Electronics", "Each"},
	{"ITM018", "Phone System - VoIP", "Electronics", "Each"},
	{"ITM019", "Keyboard - Mechanical", "Electronics", "Each"},
	{"ITM020", "Mouse - Wireless", "Electronics", "Each"},
	{"ITM021", "Headset - Noise Canceling", "Electronics", "Each"},
	{"ITM022", "Webcam - HD", "Electronics", "Each"},
	{"ITM023", "Tablet - 10 inch", "Electronics", "Each"},
	{"ITM024", "Smartphone - Business", "Electronics", "Each"},
	{"ITM025", "Hard Drive - 2TB", "Electronics", "Each"},
	{"ITM026", "RAM Memory - 16GB", "Electronics", "Each"},
	{"ITM027", "Graphics Card - Professional", "Electronics", "Each"},
	{"ITM028", "Motherboard - Server Grade", "Electronics", "Each"},
	{"ITM029", "Power Supply - 750W", "Electronics", "Each"},
	{"ITM030", "CPU Cooler - Liquid", "Electronics", "Each"},
	{"ITM031", "Cable Management Kit", "Electronics", "Each"},
	{"ITM032", "Ethernet Cable - Cat6", "Electronics", "Each"},
	{"ITM033", "Power Strip - Surge Protected", "Electronics", "Each"},
	{"ITM034", "Bookshelf - 5 Tier", "Furniture", "Each"},
	{"ITM035", "Lounge Chair - Modern", "Furniture", "Each"},
	{"ITM036", "Coffee Table - Glass", "Furniture", "Each"},
	{"ITM037", "Reception Desk", "Furniture", "Each"},
	{"ITM038", "Storage Cabinet - Lockable", "Furniture", "Each"},
	{"ITM039", "Meeting Room Table", "Furniture", "Each"},
	{"ITM040", "Office Partition - Glass", "Furniture", "Each"},
	{"ITM041", "Stationery Set - Premium", "Office Supplies", "Set"},
	{"ITM042", "Notebook - A4 Lined", "Office Supplies", "Each"},
	{"ITM043", "Pen Set - Executive", "Office Supplies", "Set"},
	{"ITM044", "Folder - Legal Size", "Office Supplies", "Box"},
	{"ITM045", "Sticky Notes - Multi Color", "Office Supplies", "Pack"},
	{"ITM046", "Stapler - Heavy Duty", "Office Supplies", "Each"},
	{"ITM047", "Paper Shredder - Cross Cut", "Office Supplies", "Each"},
	{"ITM048", "Laminator - A3 Size", "Office Supplies", "Each"},
	{"ITM049", "Calendar - Wall Planner", "Office Supplies", "Each"},
	{"ITM050", "Clock - Digital Display", "Office Supplies", "Each"},
}

var locationTypes = []string{
	"Reception", "Office Floor 1", "Office Floor 2", "Office Floor 3", "Conference Room A", "Conference Room B",
	"Storage Room", "IT Room", "Server Room", "Kitchen", "Lobby", "Training Room", "Manager Office", "Warehouse A", "Warehouse B",
}

var assetKinds = []string{"Desktop", "Laptop", "Monitor", "Chair", "Desk", "Printer", "Scanner", "Router", "Switch", "Phone"}

var assetCategories = []string{
	"Computer Equipment", "Office Furniture", "Network Equipment", "Office Supplies", "Security Equipment", "Audiovisual Equipment",
}

var assetStatuses = []weighted{
	{"Active", 60}, {"InRepair", 15}, {"Disposed", 10}, {"InTransit", 10}, {"Reserved", 5},
}

var purchaseOrderStatuses = []weighted{
	{"Open", 30}, {"Approved", 40}, {"Closed", 25}, {"Cancelled", 5},
}

var salesOrderStatuses = []weighted{
	{"Open", 25}, {"Shipped", 35}, {"Closed", 35}, {"Cancelled", 5},
}

var billStatuses = []weighted{
	{"Open", 30}, {"Paid", 50}, {"Void", 5}, {"Overdue", 15},
}

var transactionTypes = []weighted{
	{"Move", 40}, {"Adjust", 15}, {"Dispose", 10}, {"Create", 15}, {"Repair", 15}, {"Return", 5},
}
