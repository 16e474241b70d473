package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/console"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Operate the inventory through the gateway",
	Long:  `Terminal client for the admin console. The session is kept in a runtime file between invocations and is gone once the login session ends.`,
}

var (
	consoleGateway   string
	consoleSession   string
	consoleAssumeYes bool
)

// consoleApp is what every console subcommand needs.
type consoleApp struct {
	client *console.Client
	store  console.Store
	guard  *console.RouteGuard
	nav    console.Navigator
	out    io.Writer
}

func newConsoleApp(out io.Writer) (*consoleApp, error) {
	gateway, sessionFile := consoleGateway, consoleSession
	if gateway == "" || sessionFile == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if gateway == "" {
			gateway = cfg.Console.GatewayURL
		}
		if sessionFile == "" {
			sessionFile = cfg.Console.SessionFile
		}
	}
	if sessionFile == "" {
		sessionFile = console.DefaultSessionPath()
	}

	store := console.NewFileStore(sessionFile)
	nav := console.WriterNavigator{Out: out}
	return &consoleApp{
		client: console.NewClient(gateway, store, nil),
		store:  store,
		guard:  console.NewRouteGuard(store, nav),
		nav:    nav,
		out:    out,
	}, nil
}

func appFrom(cmd *cobra.Command) *consoleApp {
	app, err := newConsoleApp(cmd.OutOrStdout())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return app
}

func explain(out io.Writer, err error) error {
	if errors.Is(err, console.ErrAccessRestricted) {
		fmt.Fprintln(out, "Acceso restringido: su nivel de acceso no permite ver esta sección.")
		return nil
	}
	return err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)
		usuario, _ := cmd.Flags().GetString("usuario")
		contrasena, _ := cmd.Flags().GetString("contrasena")
		if contrasena == "" {
			fmt.Fprint(app.out, "Contraseña: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			contrasena = strings.TrimSpace(line)
		}
		session, err := app.client.Login(cmd.Context(), usuario, contrasena)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "Bienvenido, %s (acceso %s)\n", session.DisplayName, session.AccessLevel)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)
		if err := app.client.Logout(); err != nil {
			return err
		}
		app.nav.Redirect(console.LoginPath)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the session and ask the backend to verify it",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, s console.Session) error {
			fmt.Fprintf(app.out, "Sesión local: %s (%s), acceso %s\n", s.Username, s.DisplayName, s.AccessLevel)
			info, err := app.client.VerifyLevel(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Backend: %s (%s), acceso %s\n", info.Usuario, info.Nombre, info.Nivel)
			return nil
		})(cmd.Context())
	},
}

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "List the sections available to the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, s console.Session) error {
			for _, e := range console.NavEntries(s) {
				fmt.Fprintf(app.out, "%-12s %s\n", e.Label, e.Path)
			}
			return nil
		})(cmd.Context())
	},
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"catalogo"},
	Short:   "Areas, categories, brands and statuses",
}

func catalogKind(name string) (catalog.Kind, error) {
	k, ok := catalog.Lookup(name)
	if !ok {
		return catalog.Kind{}, fmt.Errorf("catálogo desconocido %q", name)
	}
	return k, nil
}

var catalogListCmd = &cobra.Command{
	Use:   "list <area|category|brand|status>",
	Short: "List active entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := catalogKind(args[0])
		if err != nil {
			return err
		}
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
			entries, err := app.client.ListCatalog(ctx, k)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNOMBRE\tACTIVO")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%t\n", e.ID, e.Nombre, e.Activo)
			}
			return tw.Flush()
		})(cmd.Context())
	},
}

var catalogCreateCmd = &cobra.Command{
	Use:   "create <kind> <nombre>",
	Short: "Create an entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := catalogKind(args[0])
		if err != nil {
			return err
		}
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
			msg, err := app.client.CreateCatalogEntry(ctx, k, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, msg)
			return nil
		})(cmd.Context())
	},
}

func catalogToggleCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <kind> <id>",
		Short: "Toggle an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := catalogKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			app := appFrom(cmd)
			return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
				msg, err := app.client.SetCatalogEntryActive(ctx, k, id, active)
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, msg)
				return nil
			})(cmd.Context())
		},
	}
}

var productosCmd = &cobra.Command{
	Use:   "productos",
	Short: "Inventory items",
}

var productosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
			tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNO. INV\tSERIE\tMODELO\tÁREA\tESTADO")
			if size > 0 {
				p, err := app.client.ProductsPage(ctx, page, size)
				if err != nil {
					return err
				}
				for _, pr := range p.Content {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", pr.ID, pr.NoInv, pr.NoSerie, pr.Modelo, pr.Area.Nombre, pr.Estado.Nombre)
				}
				fmt.Fprintf(tw, "\npágina %d de %d (%d productos)\n", p.Number+1, p.TotalPages, p.TotalElements)
				return tw.Flush()
			}
			products, err := app.client.ListProducts(ctx)
			if err != nil {
				return err
			}
			for _, pr := range products {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", pr.ID, pr.NoInv, pr.NoSerie, pr.Modelo, pr.Area.Nombre, pr.Estado.Nombre)
			}
			return tw.Flush()
		})(cmd.Context())
	},
}

var productosBajaCmd = &cobra.Command{
	Use:   "baja <id>",
	Short: "Retire a product; a reason is mandatory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		motivo, _ := cmd.Flags().GetString("motivo")
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
			msg, err := app.client.RetireProduct(ctx, id, motivo)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, msg)
			return nil
		})(cmd.Context())
	},
}

var movimientosCmd = &cobra.Command{
	Use:   "movimientos",
	Short: "Show the change history",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter console.MovementFilter
		filter.Usuario, _ = cmd.Flags().GetString("usuario")
		filter.Fecha, _ = cmd.Flags().GetString("fecha")
		app := appFrom(cmd)
		return app.guard.Protect(func(ctx context.Context, _ console.Session) error {
			records, err := app.client.ListMovements(ctx, filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFECHA\tHORA\tACCIÓN\tTABLA\tREGISTRO\tUSUARIO\tDETALLES")
			for _, m := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					m.ID, m.Fecha, m.Hora, m.Accion.Label(), m.TablaAfectada, m.IDRegistroAfectado, m.Usuario.Usuario, m.Detalles)
			}
			return tw.Flush()
		})(cmd.Context())
	},
}

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"usuarios"},
	Short:   "User administration (Total access only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)
		err := app.guard.Protect(console.RequireTotal(func(ctx context.Context, _ console.Session) error {
			users, err := app.client.ListUsers(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSUARIO\tNOMBRE\tNIVEL\tACTIVO")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Usuario, u.Nombre, u.Nivel, u.Activo)
			}
			return tw.Flush()
		}))(cmd.Context())
		return explain(app.out, err)
	},
}

// findUser loads the stored record the edit is compared against.
func findUser(ctx context.Context, client *console.Client, id int64) (user.User, error) {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("usuario %d no encontrado", id)
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit an account; unset flags keep their stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		app := appFrom(cmd)
		err = app.guard.Protect(console.RequireTotal(func(ctx context.Context, _ console.Session) error {
			current, err := findUser(ctx, app.client, id)
			if err != nil {
				return err
			}
			dto, err := updateFromFlags(cmd, current)
			if err != nil {
				return err
			}
			guard := console.NewSelfMutationGuard(app.store, app.nav,
				console.NewPromptConfirmer(cmd.InOrStdin(), app.out, consoleAssumeYes), app.client)
			outcome, err := guard.Submit(ctx, current, dto)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Usuario actualizado exitosamente (%s)\n", outcome)
			return nil
		}))(cmd.Context())
		return explain(app.out, err)
	},
}

func updateFromFlags(cmd *cobra.Command, current user.User) (user.UpdateDTO, error) {
	dto := user.UpdateDTO{
		Usuario: current.Usuario,
		Nombre:  current.Nombre,
		Nivel:   current.Nivel,
		Activo:  user.Flag(current.Activo),
	}
	flags := cmd.Flags()
	if flags.Changed("usuario") {
		dto.Usuario, _ = flags.GetString("usuario")
	}
	if flags.Changed("nombre") {
		dto.Nombre, _ = flags.GetString("nombre")
	}
	if flags.Changed("nivel") {
		raw, _ := flags.GetString("nivel")
		level, err := user.ParseAccessLevel(raw)
		if err != nil {
			return dto, err
		}
		dto.Nivel = level
	}
	if flags.Changed("activo") {
		activo, _ := flags.GetBool("activo")
		dto.Activo = user.Flag(activo)
	}
	if flags.Changed("contrasena") {
		dto.Contrasena, _ = flags.GetString("contrasena")
	}
	return dto, nil
}

func usersToggleCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: "Toggle an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app := appFrom(cmd)
			err = app.guard.Protect(console.RequireTotal(func(ctx context.Context, _ console.Session) error {
				target, err := findUser(ctx, app.client, id)
				if err != nil {
					return err
				}
				guard := console.NewSelfMutationGuard(app.store, app.nav,
					console.NewPromptConfirmer(cmd.InOrStdin(), app.out, consoleAssumeYes), app.client)
				outcome, err := guard.SetActive(ctx, target, active)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.out, "Usuario %s (%s)\n", use, outcome)
				return nil
			}))(cmd.Context())
			return explain(app.out, err)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identificador inválido %q", s)
	}
	return id, nil
}

func init() {
	consoleCmd.PersistentFlags().StringVar(&consoleGateway, "gateway", "", "gateway base URL (default from config)")
	consoleCmd.PersistentFlags().StringVar(&consoleSession, "session-file", "", "session file (default in the user config dir)")
	consoleCmd.PersistentFlags().BoolVarP(&consoleAssumeYes, "yes", "y", false, "accept warnings without prompting")

	loginCmd.Flags().StringP("usuario", "u", "", "username")
	loginCmd.Flags().StringP("contrasena", "p", "", "password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("usuario")

	productosListCmd.Flags().Int("page", 0, "zero-based page")
	productosListCmd.Flags().Int("size", 0, "page size; 0 lists everything")
	productosBajaCmd.Flags().String("motivo", "", "reason for the retirement")

	movimientosCmd.Flags().String("usuario", "", "only changes made by this user")
	movimientosCmd.Flags().String("fecha", "", "only changes on this day (AAAA-MM-DD)")

	usersUpdateCmd.Flags().String("usuario", "", "new username")
	usersUpdateCmd.Flags().String("nombre", "", "new display name")
	usersUpdateCmd.Flags().String("nivel", "", "Total or Parcial")
	usersUpdateCmd.Flags().Bool("activo", true, "whether the account is enabled")
	usersUpdateCmd.Flags().String("contrasena", "", "new password")

	catalogCmd.AddCommand(catalogListCmd, catalogCreateCmd,
		catalogToggleCmd("activate", true), catalogToggleCmd("deactivate", false))
	productosCmd.AddCommand(productosListCmd, productosBajaCmd)
	usersCmd.AddCommand(usersListCmd, usersUpdateCmd,
		usersToggleCmd("activate", true), usersToggleCmd("deactivate", false))

	consoleCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, navCmd, catalogCmd, productosCmd, movimientosCmd, usersCmd)
}
