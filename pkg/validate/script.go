package validate

import (
	"fmt"
	"strings"
)

// ClientScript emits the complete browser validation bundle: one function
// per field, a formValidators lookup table, helpers to validate a field or a
// whole form element, live on-input checks, submit interception, and the
// error styling the fragments rely on.
func (f *FormValidator) ClientScript() string {
	var functions []string
	var entries []string

	for _, name := range f.fieldOrder {
		validator := f.fields[name]
		fn := validator.ClientScript()
		if fn == "" {
			continue
		}
		functions = append(functions, fn)
		entries = append(entries, fmt.Sprintf("    '%s': validate%s", name, camelName(name)))
	}

	return fmt.Sprintf(`<script>
%s

const formValidators = {
%s
};

function validateField(fieldName, value) {
    const validator = formValidators[fieldName];
    if (validator) {
        return validator(value);
    }
    return null;
}

function validateForm(formElement) {
    let isValid = true;
    const errors = {};

    // Clear previous errors
    formElement.querySelectorAll('.error-message').forEach(el => el.remove());
    formElement.querySelectorAll('.error').forEach(el => el.classList.remove('error'));

    // Validate each field
    for (const [fieldName, validator] of Object.entries(formValidators)) {
        const input = formElement.querySelector('[name="' + fieldName + '"]');
        if (input) {
            const error = validator(input.value);
            if (error) {
                errors[fieldName] = error;
                isValid = false;

                input.classList.add('error');
                const errorElement = document.createElement('div');
                errorElement.className = 'error-message';
                errorElement.textContent = error;
                input.parentNode.insertBefore(errorElement, input.nextSibling);
            }
        }
    }

    return { isValid, errors };
}

document.addEventListener('DOMContentLoaded', function() {
    document.querySelectorAll('form').forEach(form => {
        form.addEventListener('input', function(e) {
            const fieldName = e.target.name;
            if (fieldName && formValidators[fieldName]) {
                const error = validateField(fieldName, e.target.value);

                const existingError = e.target.parentNode.querySelector('.error-message');
                if (existingError) {
                    existingError.remove();
                }
                e.target.classList.remove('error');

                if (error) {
                    e.target.classList.add('error');
                    const errorElement = document.createElement('div');
                    errorElement.className = 'error-message';
                    errorElement.textContent = error;
                    e.target.parentNode.insertBefore(errorElement, e.target.nextSibling);
                }
            }
        });

        form.addEventListener('submit', function(e) {
            const validation = validateForm(form);
            if (!validation.isValid) {
                e.preventDefault();
            }
        });
    });
});
</script>
<style>
.error {
    border-color: #dc3545 !important;
    box-shadow: 0 0 0 0.2rem rgba(220, 53, 69, 0.25) !important;
}
.error-message {
    color: #dc3545;
    font-size: 0.875rem;
    margin-top: 0.25rem;
}
</style>`, strings.Join(functions, "\n\n"), strings.Join(entries, ",\n"))
}
