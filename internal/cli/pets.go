package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/imageurl"
	"github.com/samvad-hq/pawfinder/pkg/petsapi"
	"github.com/samvad-hq/pawfinder/pkg/validate"
	"github.com/spf13/cobra"
)

const maxPhotos = 3

// petView is a listing with its display fields resolved.
type petView struct {
	petsapi.Pet `yaml:",inline"`
	StatusLabel string   `json:"status_label,omitempty" yaml:"status_label,omitempty"`
	PhotoURLs   []string `json:"photo_urls" yaml:"photo_urls"`
}

func viewOf(p petsapi.Pet, r imageurl.Resolver) petView {
	return petView{
		Pet:         p,
		StatusLabel: petsapi.StatusLabel(p.Status),
		PhotoURLs:   p.PhotoURLs(r),
	}
}

func viewsOf(pets []petsapi.Pet, r imageurl.Resolver) []petView {
	out := make([]petView, 0, len(pets))
	for _, p := range pets {
		out = append(out, viewOf(p, r))
	}
	return out
}

type pageFlags struct {
	page    int
	perPage int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&p.perPage, "per-page", petsapi.DefaultPerPage, "Results per page")
}

func (rt *runtime) renderList(cmd *cobra.Command, pets []petsapi.Pet, pf pageFlags) error {
	a, err := rt.client()
	if err != nil {
		return err
	}
	return rt.render(cmd, petsapi.Paginate(viewsOf(pets, a.Images), pf.page, pf.perPage))
}

func newPetCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Show, post, edit or delete a listing",
	}
	cmd.AddCommand(newPetGetCmd(rt))
	cmd.AddCommand(newPetAddCmd(rt))
	cmd.AddCommand(newPetUpdateCmd(rt))
	cmd.AddCommand(newPetDeleteCmd(rt))
	return cmd
}

func newPetGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			pet, err := a.Pets.GetPet(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(cmd, viewOf(*pet, a.Images))
		},
	}
}

// petFormFlags binds the listing form to command flags.
type petFormFlags struct {
	form   petsapi.PetForm
	photos []string
}

func (p *petFormFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.form.Name, "name", "", "Poster name, Cyrillic letters only")
	f.StringVar(&p.form.Phone, "phone", "", "Contact phone")
	f.StringVar(&p.form.Email, "email", "", "Contact email")
	f.StringVar(&p.form.Kind, "kind", "", "Animal kind")
	f.StringVar(&p.form.District, "district", "", "District where the pet was found")
	f.StringVar(&p.form.Description, "description", "", "Description")
	f.StringVar(&p.form.Mark, "mark", "", "Chip or brand mark")
	f.BoolVar(&p.form.Confirm, "confirm", false, "Agree to personal data processing")
	f.BoolVar(&p.form.Register, "register", false, "Also create an account for the poster")
	f.StringVar(&p.form.Password, "password", "", "Account password when --register is set")
	f.StringVar(&p.form.PasswordConfirmation, "password-confirmation", "", "Password again")
	f.StringArrayVar(&p.photos, "photo", nil, "Photo file, up to 3 times")
}

// attach opens the photo files into form. The returned func closes them.
func (p *petFormFlags) attach() (func(), error) {
	closeAll := func(files []*os.File) {
		for _, f := range files {
			_ = f.Close()
		}
	}
	if len(p.photos) > maxPhotos {
		return nil, &validate.Error{Fields: map[string][]string{"photo1": {fmt.Sprintf("at most %d photos", maxPhotos)}}}
	}

	opened := make([]*os.File, 0, len(p.photos))
	slots := []**httpclient.File{&p.form.Photo1, &p.form.Photo2, &p.form.Photo3}
	for i, path := range p.photos {
		f, err := os.Open(path)
		if err != nil {
			closeAll(opened)
			return nil, fmt.Errorf("open photo: %w", err)
		}
		opened = append(opened, f)
		*slots[i] = &httpclient.File{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Reader:      f,
		}
	}
	return func() { closeAll(opened) }, nil
}

func newPetAddCmd(rt *runtime) *cobra.Command {
	var pf petFormFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a new listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			done, err := pf.attach()
			if err != nil {
				return err
			}
			defer done()
			if err := pf.form.Validate(); err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			res, err := a.Pets.AddPet(cmd.Context(), pf.form)
			if err != nil {
				return err
			}
			return rt.render(cmd, res)
		},
	}
	pf.register(cmd)
	return cmd
}

func newPetUpdateCmd(rt *runtime) *cobra.Command {
	var pf petFormFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a listing; only the given fields are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			done, err := pf.attach()
			if err != nil {
				return err
			}
			defer done()
			if err := pf.form.ValidateUpdate(); err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			res, err := a.Pets.UpdatePet(cmd.Context(), id, pf.form)
			if err != nil {
				return err
			}
			return rt.render(cmd, res)
		},
	}
	pf.register(cmd)
	return cmd
}

func newPetDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			if err := a.Pets.DeleteOrder(cmd.Context(), id); err != nil {
				return err
			}
			return rt.render(cmd, map[string]any{"status": "deleted", "id": id})
		},
	}
}

func newSearchCmd(rt *runtime) *cobra.Command {
	var (
		filter petsapi.SearchFilter
		pf     pageFlags
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Quick search by text, or advanced search by --district and --kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.client()
			if err != nil {
				return err
			}
			var pets []petsapi.Pet
			switch {
			case len(args) == 1:
				pets, err = a.Pets.Search(cmd.Context(), args[0])
			case filter.District != "" || filter.Kind != "":
				pets, err = a.Pets.SearchOrders(cmd.Context(), filter)
			default:
				return errors.New("give a query or at least one of --district, --kind")
			}
			if err != nil {
				return err
			}
			return rt.renderList(cmd, pets, pf)
		},
	}
	cmd.Flags().StringVar(&filter.District, "district", "", "District filter")
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "Animal kind filter")
	pf.register(cmd)
	return cmd
}

func newRecentCmd(rt *runtime) *cobra.Command {
	var pf pageFlags

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the latest listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.client()
			if err != nil {
				return err
			}
			pets, err := a.Pets.GetRecentPets(cmd.Context())
			if err != nil {
				return err
			}
			return rt.renderList(cmd, pets, pf)
		},
	}
	pf.register(cmd)
	return cmd
}

func newSliderCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "slider",
		Short: "Show the front-page slider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.client()
			if err != nil {
				return err
			}
			s, err := a.Pets.GetSlider(cmd.Context())
			if err != nil {
				return err
			}
			for i := range s.Pets {
				s.Pets[i].Image = a.Images.Resolve(s.Pets[i].Image)
			}
			return rt.render(cmd, s)
		},
	}
}

func newOrdersCmd(rt *runtime) *cobra.Command {
	var (
		userID string
		pf     pageFlags
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List a user's listings; defaults to the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := rt.userID([]string{userID})
			if err != nil {
				return err
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			pets, err := a.Pets.GetUserOrders(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.renderList(cmd, pets, pf)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	pf.register(cmd)
	return cmd
}

func newSubscribeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Subscribe an email to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validate.Email(args[0]) {
				return &validate.Error{Fields: map[string][]string{"email": {"must be a valid email address"}}}
			}
			a, err := rt.client()
			if err != nil {
				return err
			}
			if err := a.Pets.Subscribe(cmd.Context(), args[0]); err != nil {
				return err
			}
			return rt.render(cmd, map[string]string{"status": "subscribed", "email": args[0]})
		},
	}
}

func newImageCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "image <ref>...",
		Short: "Resolve photo references to URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := imageurl.New(rt.cfg.ImageBaseURL, rt.cfg.ImagePlaceholder)
			out := make(map[string]string, len(args))
			for _, ref := range args {
				out[ref] = r.Resolve(ref)
			}
			return rt.render(cmd, out)
		},
	}
}
