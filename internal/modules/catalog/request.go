package catalog

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"github.com/spf13/cast"
)

const maxUploadMemory = 32 << 20

type productRequest struct {
	fields  ProductFields
	files   []media.File
	closers []multipart.File
}

type comboRequest struct {
	fields  ComboFields
	file    *media.File
	closers []multipart.File
}

func (p *productRequest) close() { closeAll(p.closers) }
func (c *comboRequest) close()   { closeAll(c.closers) }

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

// parseProductRequest accepts multipart forms (with `images` / `image` file
// parts) and plain JSON bodies.
func parseProductRequest(r *http.Request) (*productRequest, error) {
	req := &productRequest{}
	if !isMultipart(r) {
		var body struct {
			Name        *string         `json:"name"`
			Price       *string         `json:"price"`
			Category    *string         `json:"category"`
			Description *string         `json:"description"`
			FabricType  *string         `json:"fabricType"`
			Texture     *string         `json:"texture"`
			Quality     *string         `json:"quality"`
			Care        *string         `json:"care"`
			Colors      json.RawMessage `json:"colors"`
		}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			return nil, err
		}
		req.fields = ProductFields{
			Name: body.Name, Price: body.Price, Category: body.Category,
			Description: body.Description, FabricType: body.FabricType,
			Texture: body.Texture, Quality: body.Quality, Care: body.Care,
		}
		if raw, ok := rawJSONList(body.Colors); ok {
			colors, err := ParseColors(raw)
			if err != nil {
				return nil, err
			}
			req.fields.Colors = &colors
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, httpx.Validation("failed to parse form")
	}
	form := r.MultipartForm
	req.fields = ProductFields{
		Name:        formValue(form, "name"),
		Price:       formValue(form, "price"),
		Category:    formValue(form, "category"),
		Description: formValue(form, "description"),
		FabricType:  formValue(form, "fabricType"),
		Texture:     formValue(form, "texture"),
		Quality:     formValue(form, "quality"),
		Care:        formValue(form, "care"),
	}
	if raw := formValue(form, "colors"); raw != nil && *raw != "" {
		colors, err := ParseColors(*raw)
		if err != nil {
			return nil, err
		}
		req.fields.Colors = &colors
	}

	headers := append(append([]*multipart.FileHeader{}, form.File["images"]...), form.File["image"]...)
	for _, fh := range headers {
		f, err := openFile(fh)
		if err != nil {
			req.close()
			return nil, err
		}
		req.closers = append(req.closers, f.Body.(multipart.File))
		req.files = append(req.files, f)
	}
	return req, nil
}

// parseComboRequest accepts multipart forms with a single `image` part and
// plain JSON bodies. `products` may be a JSON string or an array.
func parseComboRequest(r *http.Request) (*comboRequest, error) {
	req := &comboRequest{}
	var (
		products *string
		popular  *string
	)

	if !isMultipart(r) {
		var body struct {
			Name          *string         `json:"name"`
			Description   *string         `json:"description"`
			Products      json.RawMessage `json:"products"`
			OriginalPrice *string         `json:"originalPrice"`
			ComboPrice    *string         `json:"comboPrice"`
			Savings       *string         `json:"savings"`
			Popular       json.RawMessage `json:"popular"`
		}
		if err := httpx.DecodeJSON(r, &body); err != nil {
			return nil, err
		}
		req.fields = ComboFields{
			Name: body.Name, Description: body.Description,
			OriginalPrice: body.OriginalPrice, ComboPrice: body.ComboPrice, Savings: body.Savings,
		}
		if raw, ok := rawJSONList(body.Products); ok {
			products = &raw
		}
		if len(body.Popular) > 0 && string(body.Popular) != "null" {
			s := string(bytes.Trim(body.Popular, `"`))
			popular = &s
		}
	} else {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, httpx.Validation("failed to parse form")
		}
		form := r.MultipartForm
		req.fields = ComboFields{
			Name:          formValue(form, "name"),
			Description:   formValue(form, "description"),
			OriginalPrice: formValue(form, "originalPrice"),
			ComboPrice:    formValue(form, "comboPrice"),
			Savings:       formValue(form, "savings"),
		}
		products = formValue(form, "products")
		popular = formValue(form, "popular")

		if fhs := form.File["image"]; len(fhs) > 0 {
			if len(fhs) > 1 {
				return nil, httpx.Validation("a combo takes a single image")
			}
			f, err := openFile(fhs[0])
			if err != nil {
				return nil, err
			}
			req.closers = append(req.closers, f.Body.(multipart.File))
			req.file = &f
		}
	}

	if products != nil {
		ids, err := ParseProductIDs(*products)
		if err != nil {
			req.close()
			return nil, err
		}
		req.fields.ProductIDs = &ids
	}
	if popular != nil && *popular != "" {
		b, err := cast.ToBoolE(*popular)
		if err != nil {
			req.close()
			return nil, httpx.Validation("popular must be a boolean")
		}
		req.fields.Popular = &b
	}
	return req, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formValue returns nil when key was not submitted at all.
func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// rawJSONList turns a JSON value that is either an array or a string holding
// an array into the array text.
func rawJSONList(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(raw), true
}

func openFile(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, httpx.Validation("failed to read upload %q", fh.Filename)
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}
