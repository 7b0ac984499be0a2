// Package storefront embeds the catalog query engine in another Go program.
//
// The client loads the record store once and answers the same queries the
// HTTP server does, without a network hop:
//
//	client, _ := storefront.New(ctx)
//	defer client.Close()
//
//	page, _ := client.Products(ctx, storefront.Params{
//	    Category: "outerwear",
//	    MaxPrice: storefront.Float(200),
//	    Sort:     storefront.SortPriceLow,
//	})
//	hits := client.Search(ctx, "wool")
//
// Evaluated pages can be cached in Valkey or Redis:
//
//	client, _ := storefront.New(ctx,
//	    storefront.WithValkey("localhost:6379", ""),
//	    storefront.WithCacheTTL(time.Minute),
//	)
package storefront
