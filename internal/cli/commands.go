package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taste-haven/internal/cart"
	"taste-haven/internal/client"
	"taste-haven/internal/model"

	"github.com/spf13/cobra"
)

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.api.Menu(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				a.printf("The menu is empty\n")
				return nil
			}
			for _, item := range items {
				line := fmt.Sprintf("%-38s %-28s $%7s  %s", item.ID, item.Name, item.Price, item.Category)
				if !item.Available {
					line += " (unavailable)"
				}
				a.printf("%s\n", line)
			}
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Add one of a menu item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			item, err := a.api.MenuItem(ctx, args[0])
			if err != nil {
				if errors.Is(err, client.ErrNotFound) {
					return fmt.Errorf("no menu item with id %q", args[0])
				}
				return err
			}
			if !item.Available {
				return fmt.Errorf("%s is currently unavailable", item.Name)
			}

			s := a.session(ctx)
			if err := s.AddItem(ctx, *item); err != nil {
				return err
			}
			a.printf("Added %s (%d in cart)\n", item.Name, quantityOf(s.Cart(), item.ID))
			return nil
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a menu item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx).RemoveItem(ctx, args[0]); err != nil {
				return err
			}
			a.printf("Removed %s\n", args[0])
			return nil
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <quantity>",
		Short: "Set the quantity of a cart entry; zero removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			ctx := cmd.Context()
			s := a.session(ctx)
			if err := s.UpdateQuantity(ctx, args[0], q); err != nil {
				return err
			}
			switch n := quantityOf(s.Cart(), args[0]); {
			case q <= 0:
				a.printf("Removed %s\n", args[0])
			case n == 0:
				a.printf("%s is not in the cart\n", args[0])
			default:
				a.printf("%s quantity set to %d\n", args[0], n)
			}
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.session(cmd.Context()).Cart()
			if c.Len() == 0 {
				a.printf("Your cart is empty\n")
				return nil
			}
			for _, e := range c.Entries() {
				a.printf("%3d x %-28s @ $%s  (%s)\n", e.Quantity, e.Name, e.Price, e.ID)
			}
			t := c.Totals().Strings()
			a.printf("Items:    %d\n", c.ItemCount())
			a.printf("Subtotal: $%s\n", t.Subtotal)
			a.printf("Tax:      $%s\n", t.Tax)
			a.printf("Delivery: $%s\n", t.DeliveryFee)
			a.printf("Total:    $%s\n", t.Total)
			return nil
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx).Clear(ctx); err != nil {
				return err
			}
			a.printf("Cart cleared\n")
			return nil
		},
	}
}

func newCheckoutCommand(a *app) *cobra.Command {
	var name, phone, address, notes string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := a.session(ctx)
			c := s.Cart()
			if c.Len() == 0 {
				return errors.New("your cart is empty")
			}

			req, err := checkoutRequest(c, name, phone, address, notes)
			if err != nil {
				return err
			}

			order, err := a.api.SubmitOrder(ctx, req)
			if err != nil {
				a.logger.Warn().Err(err).Msg("checkout failed, cart kept")
				return err
			}

			if err := s.Clear(ctx); err != nil {
				a.logger.Error().Err(err).Str("order_id", order.ID).Msg("order placed but cart could not be cleared")
			}

			a.printf("Order %s placed\n", order.ID)
			a.printf("Total: $%s (%s)\n", order.Total, order.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "customer phone number")
	cmd.Flags().StringVar(&address, "address", "", "delivery address")
	cmd.Flags().StringVar(&notes, "notes", "", "special instructions")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func checkoutRequest(c *cart.Cart, name, phone, address, notes string) (*model.OrderRequest, error) {
	items, err := json.Marshal(c.Entries())
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart items: %w", err)
	}

	t := c.Totals().Strings()
	req := &model.OrderRequest{
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		Items:           items,
		Subtotal:        t.Subtotal,
		Tax:             t.Tax,
		DeliveryFee:     t.DeliveryFee,
		Total:           t.Total,
		Status:          model.OrderStatusPending,
	}
	if n := strings.TrimSpace(notes); n != "" {
		req.SpecialInstructions = &n
	}
	return req, nil
}

func newOrderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show a placed order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.api.Order(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, client.ErrNotFound) {
					return fmt.Errorf("no order with id %q", args[0])
				}
				return err
			}

			a.printf("Order %s (%s)\n", order.ID, order.Status)
			a.printf("Placed:   %s\n", order.CreatedAt.Local().Format("2006-01-02 15:04"))
			a.printf("Customer: %s, %s\n", order.CustomerName, order.CustomerPhone)
			a.printf("Address:  %s\n", order.CustomerAddress)
			if order.SpecialInstructions != nil {
				a.printf("Notes:    %s\n", *order.SpecialInstructions)
			}

			var items []model.CartEntry
			if err := json.Unmarshal([]byte(order.Items), &items); err == nil {
				for _, e := range items {
					a.printf("%3d x %-28s @ $%s\n", e.Quantity, e.Name, e.Price)
				}
			}

			a.printf("Subtotal: $%s\n", order.Subtotal)
			a.printf("Tax:      $%s\n", order.Tax)
			a.printf("Delivery: $%s\n", order.DeliveryFee)
			a.printf("Total:    $%s\n", order.Total)
			return nil
		},
	}
}

func quantityOf(c *cart.Cart, id string) int {
	for _, e := range c.Entries() {
		if e.ID == id {
			return e.Quantity
		}
	}
	return 0
}
